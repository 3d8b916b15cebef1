package application

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

//go:generate mockgen -source=application_repo.go -destination=mock/application_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Application, error)
	FindByEmployee(ctx context.Context, employeeID string) (*Application, error)
	ExistsForEmployee(ctx context.Context, employeeID string) (bool, error)
	Update(ctx context.Context, a *Application) error
	AppendCompletedForm(ctx context.Context, id, formType string) (bool, int, error)
	SetCompletionPercentage(ctx context.Context, id string, percentage int) error
	AcquireApprovalLock(ctx context.Context, id string) error
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

const applicationColumns = `
	id::text, employee_id::text, application_number, status,
	completed_forms, completion_percentage,
	review_comments, reviewed_by::text, reviewed_at, approved_at,
	created_at, updated_at
`

func (r *repository) Create(ctx context.Context, a *Application) error {
	query := `
		INSERT INTO applications (
			id, employee_id, application_number, status,
			completed_forms, completion_percentage, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.EmployeeID, a.ApplicationNumber, a.Status,
		pq.Array(a.CompletedForms), a.CompletionPercentage,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return r.scanOne(r.execer().QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate row-locks the aggregate so status checks and the
// follow-up write happen against the same snapshot. Only meaningful
// inside a transaction.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.execer().QueryRowContext(ctx, query, id))
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) (*Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.execer().QueryRowContext(ctx, query, employeeID))
}

func (r *repository) ExistsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	query := `
		SELECT COUNT(1) FROM applications
		WHERE employee_id = $1 AND status <> $2
	`
	err := r.execer().QueryRowContext(ctx, query, employeeID, StatusRejected).Scan(&count)
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, a *Application) error {
	query := `
		UPDATE applications
		SET status = $2,
			completion_percentage = $3,
			review_comments = $4,
			reviewed_by = $5,
			reviewed_at = $6,
			approved_at = $7,
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.Status, a.CompletionPercentage,
		a.ReviewComments, a.ReviewedBy, a.ReviewedAt, a.ApprovedAt,
	)
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

// AppendCompletedForm records a form completion in one statement: the
// append only fires when the form name is absent, so concurrent saves
// for different forms under the same application never lose an append.
// Returns whether a row changed and the resulting number of completed
// forms; the caller derives the percentage with CompletionPercentage so
// the formula lives in exactly one place.
func (r *repository) AppendCompletedForm(ctx context.Context, id, formType string) (bool, int, error) {
	query := `
		UPDATE applications
		SET completed_forms = array_append(completed_forms, $2),
			updated_at = now()
		WHERE id = $1
			AND NOT ($2 = ANY(completed_forms))
		RETURNING cardinality(completed_forms)
	`
	var total int
	err := r.execer().QueryRowContext(ctx, query, id, formType).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, total, nil
}

func (r *repository) SetCompletionPercentage(ctx context.Context, id string, percentage int) error {
	query := `
		UPDATE applications
		SET completion_percentage = $2,
			updated_at = now()
		WHERE id = $1
	`
	_, err := r.execer().ExecContext(ctx, query, id, percentage)
	return err
}

// AcquireApprovalLock serializes the final-approval cascade per
// application. The advisory lock is transaction-scoped and released on
// commit or rollback.
func (r *repository) AcquireApprovalLock(ctx context.Context, id string) error {
	_, err := r.execer().ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, id)
	return err
}

func (r *repository) scanOne(row *sql.Row) (*Application, error) {
	var a Application
	var idStr, employeeIDStr string
	var reviewedBy sql.NullString

	err := row.Scan(
		&idStr, &employeeIDStr, &a.ApplicationNumber, &a.Status,
		pq.Array(&a.CompletedForms), &a.CompletionPercentage,
		&a.ReviewComments, &reviewedBy, &a.ReviewedAt, &a.ApprovedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := assignUUIDs(&a, idStr, employeeIDStr, reviewedBy); err != nil {
		return nil, err
	}
	return &a, nil
}

func assignUUIDs(a *Application, id, employeeID string, reviewedBy sql.NullString) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	parsedEmployeeID, err := uuid.Parse(employeeID)
	if err != nil {
		return err
	}
	a.ID = parsedID
	a.EmployeeID = parsedEmployeeID

	if reviewedBy.Valid {
		parsedReviewer, err := uuid.Parse(reviewedBy.String)
		if err != nil {
			return err
		}
		a.ReviewedBy = &parsedReviewer
	}
	return nil
}
