package application

import "time"

type CreateApplicationRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type SubmitApplicationRequest struct {
	// Submit takes no body today; kept for forward compatibility.
}

type ApplicationResponse struct {
	ID                   string   `json:"id"`
	EmployeeID           string   `json:"employee_id"`
	ApplicationNumber    string   `json:"application_number"`
	Status               string   `json:"status"`
	CompletedForms       []string `json:"completed_forms"`
	CompletionPercentage int      `json:"completion_percentage"`
	ReviewComments       *string  `json:"review_comments,omitempty"`
	ReviewedBy           *string  `json:"reviewed_by,omitempty"`
	ReviewedAt           *string  `json:"reviewed_at,omitempty"`
	ApprovedAt           *string  `json:"approved_at,omitempty"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// FormSummary is the flattened per-form view embedded in the bundle payload.
type FormSummary struct {
	ID            string         `json:"id"`
	FormType      string         `json:"form_type"`
	Status        string         `json:"status"`
	Data          map[string]any `json:"data,omitempty"`
	ReviewComment *string        `json:"review_comment,omitempty"`
	ReviewedBy    *string        `json:"reviewed_by,omitempty"`
	ReviewedAt    *string        `json:"reviewed_at,omitempty"`
	UpdatedAt     string         `json:"updated_at"`
}

// BundleResponse is the display payload for GET /applications/employee/:id:
// the aggregate plus every known form document.
type BundleResponse struct {
	Application ApplicationResponse `json:"application"`
	Forms       []FormSummary       `json:"forms"`
}

func mapToResponse(a Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                   a.ID.String(),
		EmployeeID:           a.EmployeeID.String(),
		ApplicationNumber:    a.ApplicationNumber,
		Status:               a.Status,
		CompletedForms:       append([]string{}, a.CompletedForms...),
		CompletionPercentage: a.CompletionPercentage,
		ReviewComments:       a.ReviewComments,
		CreatedAt:            a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ReviewedBy != nil {
		v := a.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if a.ReviewedAt != nil {
		v := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	if a.ApprovedAt != nil {
		v := a.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

// MapToResponse exposes the entity mapping to the review module so both
// surfaces return the same payload shape.
func MapToResponse(a Application) ApplicationResponse {
	return mapToResponse(a)
}
