package application_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-onboard/internal/application"
	applicationerrors "go-onboard/internal/application/errors"
	"go-onboard/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeApplicationRepo struct {
	CreateFn              func(ctx context.Context, a *application.Application) error
	FindByIDFn            func(ctx context.Context, id string) (*application.Application, error)
	FindByIDForUpdateFn   func(ctx context.Context, id string) (*application.Application, error)
	FindByEmployeeFn      func(ctx context.Context, employeeID string) (*application.Application, error)
	ExistsForEmployeeFn   func(ctx context.Context, employeeID string) (bool, error)
	UpdateFn              func(ctx context.Context, a *application.Application) error
	AppendCompletedFormFn func(ctx context.Context, id, formType string) (bool, int, error)
	SetCompletionPctFn    func(ctx context.Context, id string, percentage int) error
	AcquireApprovalLockFn func(ctx context.Context, id string) error
}

func (f *fakeApplicationRepo) WithTx(tx *sql.Tx) application.Repository { return f }
func (f *fakeApplicationRepo) Create(ctx context.Context, a *application.Application) error {
	return f.CreateFn(ctx, a)
}
func (f *fakeApplicationRepo) FindByID(ctx context.Context, id string) (*application.Application, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeApplicationRepo) FindByIDForUpdate(ctx context.Context, id string) (*application.Application, error) {
	return f.FindByIDForUpdateFn(ctx, id)
}
func (f *fakeApplicationRepo) FindByEmployee(ctx context.Context, employeeID string) (*application.Application, error) {
	return f.FindByEmployeeFn(ctx, employeeID)
}
func (f *fakeApplicationRepo) ExistsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	return f.ExistsForEmployeeFn(ctx, employeeID)
}
func (f *fakeApplicationRepo) Update(ctx context.Context, a *application.Application) error {
	return f.UpdateFn(ctx, a)
}
func (f *fakeApplicationRepo) AppendCompletedForm(ctx context.Context, id, formType string) (bool, int, error) {
	return f.AppendCompletedFormFn(ctx, id, formType)
}
func (f *fakeApplicationRepo) SetCompletionPercentage(ctx context.Context, id string, percentage int) error {
	return f.SetCompletionPctFn(ctx, id, percentage)
}
func (f *fakeApplicationRepo) AcquireApprovalLock(ctx context.Context, id string) error {
	return f.AcquireApprovalLockFn(ctx, id)
}

type fakeFormSource struct {
	SummariesFn       func(ctx context.Context, applicationID string) ([]application.FormSummary, error)
	MissingFn         func(ctx context.Context, applicationID string, required []string) ([]string, error)
	MarkUnderReviewFn func(ctx context.Context, applicationID string) error
}

func (f *fakeFormSource) WithTx(tx *sql.Tx) application.FormSource { return f }
func (f *fakeFormSource) SummariesByApplication(ctx context.Context, applicationID string) ([]application.FormSummary, error) {
	return f.SummariesFn(ctx, applicationID)
}
func (f *fakeFormSource) MissingRequiredForms(ctx context.Context, applicationID string, required []string) ([]string, error) {
	return f.MissingFn(ctx, applicationID, required)
}
func (f *fakeFormSource) MarkUnderReview(ctx context.Context, applicationID string) error {
	if f.MarkUnderReviewFn == nil {
		return nil
	}
	return f.MarkUnderReviewFn(ctx, applicationID)
}

type fakeCounterRepo struct {
	NextFn func(ctx context.Context, counterType string) (int64, error)
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	return f.NextFn(ctx, counterType)
}

type fakeOutboxRepo struct {
	Created []kafka.OutboxEvent
	Err     error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.Err != nil {
		return f.Err
	}
	f.Created = append(f.Created, event)
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error               { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type applicationServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *fakeApplicationRepo
	forms     *fakeFormSource
	counter   *fakeCounterRepo
	outbox    *fakeOutboxRepo
	redisMock redismock.ClientMock
	service   application.Service
}

var requiredForms = []string{"personal_data", "bank_account", "tax_form"}

func setupApplicationServiceTest(t *testing.T) *applicationServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	redisClient, redisMock := redismock.NewClientMock()

	repo := &fakeApplicationRepo{}
	forms := &fakeFormSource{}
	counterRepo := &fakeCounterRepo{}
	outbox := &fakeOutboxRepo{}

	svc := application.NewService(
		db, repo, counterRepo, forms, outbox, redisClient,
		requiredForms, zap.NewNop(),
	)

	return &applicationServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      repo,
		forms:     forms,
		counter:   counterRepo,
		outbox:    outbox,
		redisMock: redisMock,
		service:   svc,
	}
}

func TestApplicationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid employee id", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)

		_, err := deps.service.Create(ctx, application.CreateApplicationRequest{EmployeeID: "not-a-uuid"})

		assert.ErrorIs(t, err, applicationerrors.ErrInvalidEmployeeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate active application", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		employeeID := uuid.NewString()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.ExistsForEmployeeFn = func(ctx context.Context, id string) (bool, error) {
			assert.Equal(t, employeeID, id)
			return true, nil
		}

		_, err := deps.service.Create(ctx, application.CreateApplicationRequest{EmployeeID: employeeID})

		assert.ErrorIs(t, err, applicationerrors.ErrApplicationExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success assigns sequential number and starts in draft", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		employeeID := uuid.NewString()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.ExistsForEmployeeFn = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}
		deps.counter.NextFn = func(ctx context.Context, counterType string) (int64, error) {
			assert.Equal(t, "application_number", counterType)
			return 42, nil
		}

		var created *application.Application
		deps.repo.CreateFn = func(ctx context.Context, a *application.Application) error {
			created = a
			return nil
		}
		deps.redisMock.ExpectDel(application.BundleCacheKey(employeeID)).SetVal(1)

		resp, err := deps.service.Create(ctx, application.CreateApplicationRequest{EmployeeID: employeeID})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "APP-000042", resp.ApplicationNumber)
		assert.Equal(t, application.StatusDraft, resp.Status)
		assert.Equal(t, 0, resp.CompletionPercentage)
		assert.Empty(t, resp.CompletedForms)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("counter failure rolls back", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.ExistsForEmployeeFn = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}
		deps.counter.NextFn = func(ctx context.Context, counterType string) (int64, error) {
			return 0, errors.New("counter unavailable")
		}

		_, err := deps.service.Create(ctx, application.CreateApplicationRequest{EmployeeID: uuid.NewString()})

		assert.EqualError(t, err, "counter unavailable")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestApplicationService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)

		_, err := deps.service.GetByID(ctx, "42")

		assert.ErrorIs(t, err, applicationerrors.ErrInvalidApplicationID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		deps.repo.FindByIDFn = func(ctx context.Context, id string) (*application.Application, error) {
			return nil, sql.ErrNoRows
		}

		_, err := deps.service.GetByID(ctx, uuid.NewString())

		assert.ErrorIs(t, err, applicationerrors.ErrApplicationNotFound)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()
		deps.repo.FindByIDFn = func(ctx context.Context, id string) (*application.Application, error) {
			return app, nil
		}

		resp, err := deps.service.GetByID(ctx, app.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, app.ApplicationNumber, resp.ApplicationNumber)
	})
}

func TestApplicationService_GetBundleByEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		employeeID := uuid.NewString()

		cached := application.BundleResponse{
			Application: application.ApplicationResponse{
				ID:     uuid.NewString(),
				Status: application.StatusDraft,
			},
			Forms: []application.FormSummary{{FormType: "personal_data", Status: "completed"}},
		}
		payload, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(application.BundleCacheKey(employeeID)).SetVal(string(payload))

		// Repo functions stay nil so any database touch panics the test.
		resp, err := deps.service.GetBundleByEmployee(ctx, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, cached.Application.ID, resp.Application.ID)
		assert.Len(t, resp.Forms, 1)
	})

	t.Run("cache miss loads and stores for thirty seconds", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()
		employeeID := app.EmployeeID.String()

		summaries := []application.FormSummary{
			{ID: uuid.NewString(), FormType: "personal_data", Status: "completed", UpdatedAt: app.UpdatedAt.Format(time.RFC3339)},
		}

		deps.redisMock.ExpectGet(application.BundleCacheKey(employeeID)).RedisNil()
		deps.repo.FindByEmployeeFn = func(ctx context.Context, id string) (*application.Application, error) {
			assert.Equal(t, employeeID, id)
			return app, nil
		}
		deps.forms.SummariesFn = func(ctx context.Context, applicationID string) ([]application.FormSummary, error) {
			assert.Equal(t, app.ID.String(), applicationID)
			return summaries, nil
		}

		expected := application.BundleResponse{
			Application: application.MapToResponse(*app),
			Forms:       summaries,
		}
		expectedPayload, _ := json.Marshal(expected)
		deps.redisMock.ExpectSet(application.BundleCacheKey(employeeID), expectedPayload, 30*time.Second).SetVal("OK")

		resp, err := deps.service.GetBundleByEmployee(ctx, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, app.ID.String(), resp.Application.ID)
		assert.Len(t, resp.Forms, 1)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("no application for employee", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		employeeID := uuid.NewString()

		deps.redisMock.ExpectGet(application.BundleCacheKey(employeeID)).RedisNil()
		deps.repo.FindByEmployeeFn = func(ctx context.Context, id string) (*application.Application, error) {
			return nil, sql.ErrNoRows
		}

		_, err := deps.service.GetBundleByEmployee(ctx, employeeID)

		assert.ErrorIs(t, err, applicationerrors.ErrApplicationNotFound)
	})
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	t.Run("success writes outbox event in same transaction", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()
		app.CompletionPercentage = 100

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.FindByIDForUpdateFn = func(ctx context.Context, id string) (*application.Application, error) {
			return app, nil
		}
		deps.forms.MissingFn = func(ctx context.Context, applicationID string, required []string) ([]string, error) {
			assert.Equal(t, requiredForms, required)
			return nil, nil
		}

		var updated *application.Application
		deps.repo.UpdateFn = func(ctx context.Context, a *application.Application) error {
			updated = a
			return nil
		}
		var cascadedID string
		deps.forms.MarkUnderReviewFn = func(ctx context.Context, applicationID string) error {
			cascadedID = applicationID
			return nil
		}
		deps.redisMock.ExpectDel(application.BundleCacheKey(app.EmployeeID.String())).SetVal(1)

		resp, err := deps.service.Submit(ctx, app.ID.String(), actorID)

		assert.NoError(t, err)
		assert.Equal(t, application.StatusSubmitted, resp.Status)
		assert.Equal(t, application.StatusSubmitted, updated.Status)
		assert.Equal(t, app.ID.String(), cascadedID)

		assert.Len(t, deps.outbox.Created, 1)
		event := deps.outbox.Created[0]
		assert.Equal(t, "application_submitted", event.EventType)
		assert.Equal(t, app.ID.String(), event.AggregateID)
		assert.Equal(t, "application", event.AggregateType)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(event.Payload, &body))
		assert.Equal(t, app.EmployeeID.String(), body["employee_id"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("cascade failure rolls back the submission", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()
		app.CompletionPercentage = 100

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.FindByIDForUpdateFn = func(ctx context.Context, id string) (*application.Application, error) {
			return app, nil
		}
		deps.forms.MissingFn = func(ctx context.Context, applicationID string, required []string) ([]string, error) {
			return nil, nil
		}
		deps.repo.UpdateFn = func(ctx context.Context, a *application.Application) error {
			return nil
		}
		deps.forms.MarkUnderReviewFn = func(ctx context.Context, applicationID string) error {
			return errors.New("deadlock detected")
		}

		_, err := deps.service.Submit(ctx, app.ID.String(), actorID)

		assert.EqualError(t, err, "deadlock detected")
		assert.Empty(t, deps.outbox.Created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing required forms blocks submission", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.FindByIDForUpdateFn = func(ctx context.Context, id string) (*application.Application, error) {
			return app, nil
		}
		deps.forms.MissingFn = func(ctx context.Context, applicationID string, required []string) ([]string, error) {
			return []string{"tax_form"}, nil
		}

		_, err := deps.service.Submit(ctx, app.ID.String(), actorID)

		assert.ErrorIs(t, err, applicationerrors.ErrRequiredFormsIncomplete)
		assert.Empty(t, deps.outbox.Created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved application is locked", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()
		app.Status = application.StatusApproved

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.FindByIDForUpdateFn = func(ctx context.Context, id string) (*application.Application, error) {
			return app, nil
		}

		_, err := deps.service.Submit(ctx, app.ID.String(), actorID)

		assert.ErrorIs(t, err, applicationerrors.ErrApplicationLocked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("resubmitting an already submitted application", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)
		app := newDraftApplication()
		app.Status = application.StatusSubmitted

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.FindByIDForUpdateFn = func(ctx context.Context, id string) (*application.Application, error) {
			return app, nil
		}

		_, err := deps.service.Submit(ctx, app.ID.String(), actorID)

		assert.ErrorIs(t, err, applicationerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupApplicationServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.FindByIDForUpdateFn = func(ctx context.Context, id string) (*application.Application, error) {
			return nil, sql.ErrNoRows
		}

		_, err := deps.service.Submit(ctx, uuid.NewString(), actorID)

		assert.ErrorIs(t, err, applicationerrors.ErrApplicationNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func newDraftApplication() *application.Application {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &application.Application{
		ID:                uuid.New(),
		EmployeeID:        uuid.New(),
		ApplicationNumber: "APP-000007",
		Status:            application.StatusDraft,
		CompletedForms:    []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
