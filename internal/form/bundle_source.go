package form

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-onboard/internal/application"
)

// bundleSource adapts the form repository to the read surface the
// application aggregate expects.
type bundleSource struct {
	repo Repository
}

func NewBundleSource(repo Repository) application.FormSource {
	return &bundleSource{repo: repo}
}

func (b *bundleSource) WithTx(tx *sql.Tx) application.FormSource {
	return &bundleSource{repo: b.repo.WithTx(tx)}
}

func (b *bundleSource) SummariesByApplication(ctx context.Context, applicationID string) ([]application.FormSummary, error) {
	forms, err := b.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	summaries := make([]application.FormSummary, 0, len(forms))
	for _, f := range forms {
		s := application.FormSummary{
			ID:            f.ID.String(),
			FormType:      f.FormType,
			Status:        f.Status,
			ReviewComment: f.ReviewComment,
			UpdatedAt:     f.UpdatedAt.Format(time.RFC3339),
		}
		if len(f.Data) > 0 {
			var data map[string]any
			if json.Unmarshal(f.Data, &data) == nil {
				s.Data = data
			}
		}
		if f.ReviewedBy != nil {
			v := f.ReviewedBy.String()
			s.ReviewedBy = &v
		}
		if f.ReviewedAt != nil {
			v := f.ReviewedAt.Format(time.RFC3339)
			s.ReviewedAt = &v
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// MissingRequiredForms lists the required form types that are not yet in
// a state counting toward completion. Submission is gated on an empty
// result.
func (b *bundleSource) MissingRequiredForms(ctx context.Context, applicationID string, required []string) ([]string, error) {
	statuses, err := b.repo.StatusesByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range required {
		status, ok := statuses[name]
		if !ok || !CountsTowardCompletion(status) {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// MarkUnderReview cascades the application's counted documents into
// under_review; the submit transaction calls it after the gate passes.
func (b *bundleSource) MarkUnderReview(ctx context.Context, applicationID string) error {
	return b.repo.MarkUnderReview(ctx, applicationID)
}
