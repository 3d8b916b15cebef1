package form

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=form_repo.go -destination=mock/form_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, f *FormDocument) error
	FindByID(ctx context.Context, id string) (*FormDocument, error)
	FindByApplicationAndType(ctx context.Context, applicationID, formType string) (*FormDocument, error)
	FindByApplicationAndTypeForUpdate(ctx context.Context, applicationID, formType string) (*FormDocument, error)
	ListByApplication(ctx context.Context, applicationID string) ([]FormDocument, error)
	StatusesByApplication(ctx context.Context, applicationID string) (map[string]string, error)
	UpdateReview(ctx context.Context, id, status string, comment *string, reviewedBy uuid.UUID, reviewedAt time.Time) error
	MarkUnderReview(ctx context.Context, applicationID string) error
	ApproveAll(ctx context.Context, applicationID string, reviewedBy uuid.UUID, reviewedAt time.Time) error
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type executor interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) execer() executor {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const formColumns = `
	id::text, application_id::text, employee_id::text, form_type, status,
	COALESCE(data, '{}'::jsonb), review_comment, reviewed_by::text, reviewed_at,
	created_at, updated_at
`

// Upsert saves or creates the one document for (application, form type).
// The unique index guarantees a second save updates the first row rather
// than inserting a sibling.
func (r *repository) Upsert(ctx context.Context, f *FormDocument) error {
	query := `
		INSERT INTO form_documents (
			id, application_id, employee_id, form_type, status, data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (application_id, form_type) DO UPDATE
		SET status = EXCLUDED.status,
			data = EXCLUDED.data,
			updated_at = now()
		RETURNING id::text, created_at, updated_at
	`

	var idStr string
	err := r.execer().QueryRowContext(
		ctx, query,
		f.ID, f.ApplicationID, f.EmployeeID, f.FormType, f.Status, []byte(f.Data),
	).Scan(&idStr, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return err
	}

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return err
	}
	f.ID = parsedID
	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*FormDocument, error) {
	query := `SELECT ` + formColumns + ` FROM form_documents WHERE id = $1`
	return scanForm(r.execer().QueryRowContext(ctx, query, id))
}

func (r *repository) FindByApplicationAndType(ctx context.Context, applicationID, formType string) (*FormDocument, error) {
	query := `SELECT ` + formColumns + ` FROM form_documents WHERE application_id = $1 AND form_type = $2`
	return scanForm(r.execer().QueryRowContext(ctx, query, applicationID, formType))
}

func (r *repository) FindByApplicationAndTypeForUpdate(ctx context.Context, applicationID, formType string) (*FormDocument, error) {
	query := `SELECT ` + formColumns + ` FROM form_documents WHERE application_id = $1 AND form_type = $2 FOR UPDATE`
	return scanForm(r.execer().QueryRowContext(ctx, query, applicationID, formType))
}

func (r *repository) ListByApplication(ctx context.Context, applicationID string) ([]FormDocument, error) {
	query := `SELECT ` + formColumns + ` FROM form_documents WHERE application_id = $1 ORDER BY form_type ASC`

	rows, err := r.execer().QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []FormDocument
	for rows.Next() {
		f, err := scanFormRows(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, *f)
	}
	return forms, rows.Err()
}

func (r *repository) StatusesByApplication(ctx context.Context, applicationID string) (map[string]string, error) {
	query := `SELECT form_type, status FROM form_documents WHERE application_id = $1`

	rows, err := r.execer().QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(map[string]string)
	for rows.Next() {
		var formType, status string
		if err := rows.Scan(&formType, &status); err != nil {
			return nil, err
		}
		statuses[formType] = status
	}
	return statuses, rows.Err()
}

func (r *repository) UpdateReview(ctx context.Context, id, status string, comment *string, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	query := `
		UPDATE form_documents
		SET status = $2,
			review_comment = $3,
			reviewed_by = $4,
			reviewed_at = $5,
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.execer().ExecContext(ctx, query, id, status, comment, reviewedBy, reviewedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkUnderReview moves every document already counting toward
// completion into under_review. Runs inside the submit transaction so
// HR decisions always start from a reviewable status.
func (r *repository) MarkUnderReview(ctx context.Context, applicationID string) error {
	query := `
		UPDATE form_documents
		SET status = $2,
			updated_at = now()
		WHERE application_id = $1 AND status IN ($3, $4, $5)
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		applicationID, StatusUnderReview,
		StatusCompleted, StatusStaffSigned, StatusSubmitted,
	)
	return err
}

// ApproveAll is the final-approval cascade: one statement locks every
// document of the application into approved, replacing the historical
// per-collection fan-out. Running it again is a no-op for rows already
// approved, which keeps final approval idempotent.
func (r *repository) ApproveAll(ctx context.Context, applicationID string, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	query := `
		UPDATE form_documents
		SET status = $2,
			reviewed_by = $3,
			reviewed_at = $4,
			updated_at = now()
		WHERE application_id = $1 AND status <> $2
	`
	_, err := r.execer().ExecContext(ctx, query, applicationID, StatusApproved, reviewedBy, reviewedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row *sql.Row) (*FormDocument, error) {
	return scanFormRows(row)
}

func scanFormRows(row rowScanner) (*FormDocument, error) {
	var f FormDocument
	var idStr, applicationIDStr, employeeIDStr string
	var data []byte
	var reviewedBy sql.NullString

	err := row.Scan(
		&idStr, &applicationIDStr, &employeeIDStr, &f.FormType, &f.Status,
		&data, &f.ReviewComment, &reviewedBy, &f.ReviewedAt,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Data = data

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	parsedApplicationID, err := uuid.Parse(applicationIDStr)
	if err != nil {
		return nil, err
	}
	parsedEmployeeID, err := uuid.Parse(employeeIDStr)
	if err != nil {
		return nil, err
	}
	f.ID = parsedID
	f.ApplicationID = parsedApplicationID
	f.EmployeeID = parsedEmployeeID

	if reviewedBy.Valid {
		parsedReviewer, err := uuid.Parse(reviewedBy.String)
		if err != nil {
			return nil, err
		}
		f.ReviewedBy = &parsedReviewer
	}
	return &f, nil
}
