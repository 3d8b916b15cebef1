package form

import (
	"fmt"
	"sort"
	"strings"
)

// FormType describes one onboarding document the system knows about.
// Required types count toward the application completion percentage and
// gate submission; optional ones are tracked but never block.
type FormType struct {
	Name     string
	Title    string
	Required bool
}

// Registry is the explicit enumeration of known form types. It replaces
// the historical hard-coded expected-forms total: the required count is
// always derived from the enumeration itself.
type Registry struct {
	types  []FormType
	byName map[string]FormType
}

func NewRegistry(types ...FormType) *Registry {
	byName := make(map[string]FormType, len(types))
	for _, t := range types {
		byName[t.Name] = t
	}
	return &Registry{types: types, byName: byName}
}

// DefaultRegistry enumerates the standard onboarding packet: seventeen
// required documents plus the role-specific optional ones.
func DefaultRegistry() *Registry {
	return NewRegistry(
		FormType{Name: "personal_information", Title: "Personal Information", Required: true},
		FormType{Name: "i9", Title: "Form I-9 Employment Eligibility", Required: true},
		FormType{Name: "w4", Title: "Form W-4 Tax Withholding", Required: true},
		FormType{Name: "w9", Title: "Form W-9 Taxpayer Identification", Required: true},
		FormType{Name: "direct_deposit", Title: "Direct Deposit Authorization", Required: true},
		FormType{Name: "background_check", Title: "Background Check Consent", Required: true},
		FormType{Name: "emergency_contact", Title: "Emergency Contact", Required: true},
		FormType{Name: "employment_application", Title: "Employment Application", Required: true},
		FormType{Name: "handbook_acknowledgment", Title: "Employee Handbook Acknowledgment", Required: true},
		FormType{Name: "confidentiality_agreement", Title: "Confidentiality Agreement", Required: true},
		FormType{Name: "drug_test_consent", Title: "Drug Test Consent", Required: true},
		FormType{Name: "health_insurance", Title: "Health Insurance Enrollment", Required: true},
		FormType{Name: "tb_screening", Title: "TB Screening Questionnaire", Required: true},
		FormType{Name: "hepatitis_b_vaccination", Title: "Hepatitis B Vaccination Form", Required: true},
		FormType{Name: "reference_check", Title: "Reference Check Authorization", Required: true},
		FormType{Name: "orientation_checklist", Title: "Orientation Checklist", Required: true},
		FormType{Name: "policy_acknowledgment", Title: "Policy Acknowledgment", Required: true},
		FormType{Name: "job_description_pca", Title: "Job Description Acknowledgment (PCA)"},
		FormType{Name: "job_description_cna", Title: "Job Description Acknowledgment (CNA)"},
		FormType{Name: "job_description_lpn", Title: "Job Description Acknowledgment (LPN)"},
		FormType{Name: "driving_license", Title: "Driving License Record"},
		FormType{Name: "training_questions", Title: "Training Questions"},
	)
}

// RegistryFromEnv builds a registry whose required set is overridden by a
// comma-separated list of form names (ONBOARD_REQUIRED_FORMS). An empty
// value returns the default registry; unknown names are rejected.
func RegistryFromEnv(csv string) (*Registry, error) {
	base := DefaultRegistry()
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return base, nil
	}

	required := make(map[string]bool)
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := base.byName[name]; !ok {
			return nil, fmt.Errorf("unknown form type %q in required forms override", name)
		}
		required[name] = true
	}
	if len(required) == 0 {
		return base, nil
	}

	types := make([]FormType, 0, len(base.types))
	for _, t := range base.types {
		t.Required = required[t.Name]
		types = append(types, t)
	}
	return NewRegistry(types...), nil
}

func (r *Registry) Lookup(name string) (FormType, bool) {
	t, ok := r.byName[name]
	return t, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for _, t := range r.types {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) RequiredNames() []string {
	names := make([]string, 0, len(r.types))
	for _, t := range r.types {
		if t.Required {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Registry) RequiredCount() int {
	count := 0
	for _, t := range r.types {
		if t.Required {
			count++
		}
	}
	return count
}
