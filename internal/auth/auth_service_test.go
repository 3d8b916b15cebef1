package auth_test

import (
	"context"
	"testing"
	"time"

	"go-onboard/internal/auth"
	autherrors "go-onboard/internal/auth/errors"
	"go-onboard/internal/employee"
	employeeerrors "go-onboard/internal/employee/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	CreateFn     func(ctx context.Context, user *auth.User) error
	GetByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *auth.User) error {
	return f.CreateFn(ctx, user)
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.GetByEmailFn(ctx, email)
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.GetByIDFn(ctx, id)
}

type fakeEmployeeRepo struct {
	FindByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, empl *employee.Employee) error {
	panic("unexpected Create")
}
func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	panic("unexpected FindAll")
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeEmployeeRepo) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	panic("unexpected FindOptions")
}

type fakeMailer struct {
	SentTo   string
	SentCode string
	Err      error
}

func (f *fakeMailer) SendOTP(to, code string) error {
	if f.Err != nil {
		return f.Err
	}
	f.SentTo = to
	f.SentCode = code
	return nil
}

func newTestUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	employeeID := uuid.New()
	return &auth.User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		Name:       "Grace Hopper",
		Email:      "grace.hopper@example.com",
		Password:   string(hashed),
		Role:       "employee",
		IsActive:   true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("unknown email", func(t *testing.T) {
		repo := &fakeUserRepo{GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "hunter2")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		user := newTestUser(t, "correct-horse")
		repo := &fakeUserRepo{GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		}}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		_, _, _, err := svc.Login(ctx, user.Email, "battery-staple")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("success issues both tokens", func(t *testing.T) {
		user := newTestUser(t, "correct-horse")
		repo := &fakeUserRepo{GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			assert.Equal(t, user.Email, email)
			return user, nil
		}}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		access, refresh, resp, err := svc.Login(ctx, user.Email, "correct-horse")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID.String(), resp.ID)
		assert.Equal(t, "employee", resp.Role)

		parsed, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
		assert.Equal(t, "employee", claims["role"])
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown employee link", func(t *testing.T) {
		employeeRepo := &fakeEmployeeRepo{FindByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := auth.NewService(&fakeUserRepo{}, employeeRepo, nil, &fakeMailer{}, zap.NewNop())

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:       "Grace Hopper",
			Email:      "grace.hopper@example.com",
			Password:   "correct-horse",
			EmployeeID: uuid.NewString(),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("new accounts start as employee", func(t *testing.T) {
		repo := &fakeUserRepo{}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		var created *auth.User
		repo.CreateFn = func(ctx context.Context, user *auth.User) error {
			created = user
			return nil
		}

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Grace Hopper",
			Email:    "grace.hopper@example.com",
			Password: "correct-horse",
		})

		assert.NoError(t, err)
		assert.Equal(t, "employee", resp.Role)
		assert.Empty(t, resp.EmployeeID)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, "correct-horse", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct-horse")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &fakeUserRepo{CreateFn: func(ctx context.Context, user *auth.User) error {
			return gorm.ErrDuplicatedKey
		}}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Grace Hopper",
			Email:    "grace.hopper@example.com",
			Password: "correct-horse",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_RequestOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email reports success", func(t *testing.T) {
		repo := &fakeUserRepo{GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		mailer := &fakeMailer{}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, mailer, zap.NewNop())

		err := svc.RequestOTP(ctx, "nobody@example.com")

		assert.NoError(t, err)
		assert.Empty(t, mailer.SentTo)
	})

	t.Run("stores a six digit code and mails it", func(t *testing.T) {
		user := newTestUser(t, "correct-horse")
		repo := &fakeUserRepo{GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		}}
		redisClient, redisMock := redismock.NewClientMock()
		mailer := &fakeMailer{}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, redisClient, mailer, zap.NewNop())

		redisMock.Regexp().ExpectSet("auth:otp:"+user.Email, `^\d{6}$`, 5*time.Minute).SetVal("OK")

		err := svc.RequestOTP(ctx, user.Email)

		assert.NoError(t, err)
		assert.Equal(t, user.Email, mailer.SentTo)
		assert.Len(t, mailer.SentCode, 6)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")
	email := "grace.hopper@example.com"

	t.Run("no code outstanding", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		svc := auth.NewService(&fakeUserRepo{}, &fakeEmployeeRepo{}, redisClient, &fakeMailer{}, zap.NewNop())

		redisMock.ExpectGetDel("auth:otp:" + email).RedisNil()

		_, _, _, err := svc.VerifyOTP(ctx, email, "123456")

		assert.ErrorIs(t, err, autherrors.ErrInvalidOTP)
	})

	t.Run("wrong code is consumed too", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		svc := auth.NewService(&fakeUserRepo{}, &fakeEmployeeRepo{}, redisClient, &fakeMailer{}, zap.NewNop())

		redisMock.ExpectGetDel("auth:otp:" + email).SetVal("654321")

		_, _, _, err := svc.VerifyOTP(ctx, email, "123456")

		assert.ErrorIs(t, err, autherrors.ErrInvalidOTP)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("matching code logs the user in", func(t *testing.T) {
		user := newTestUser(t, "correct-horse")
		user.Email = email
		repo := &fakeUserRepo{GetByEmailFn: func(ctx context.Context, e string) (*auth.User, error) {
			assert.Equal(t, email, e)
			return user, nil
		}}
		redisClient, redisMock := redismock.NewClientMock()
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, redisClient, &fakeMailer{}, zap.NewNop())

		redisMock.ExpectGetDel("auth:otp:" + email).SetVal("123456")

		access, refresh, resp, err := svc.VerifyOTP(ctx, email, "123456")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID.String(), resp.ID)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid user id", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepo{}, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		_, err := svc.GetMe(ctx, "user-1")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("success", func(t *testing.T) {
		user := newTestUser(t, "correct-horse")
		repo := &fakeUserRepo{GetByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		}}
		svc := auth.NewService(repo, &fakeEmployeeRepo{}, nil, &fakeMailer{}, zap.NewNop())

		resp, err := svc.GetMe(ctx, user.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, user.EmployeeID.String(), resp.EmployeeID)
	})
}
