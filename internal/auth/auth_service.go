package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"time"

	autherrors "go-onboard/internal/auth/errors"
	"go-onboard/internal/employee"
	employeeerrors "go-onboard/internal/employee/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpKeyPrefix = "auth:otp:"
	otpTTL       = 5 * time.Minute

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (accessToken, refreshToken string, resp AuthResponse, err error)
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
	rdb          *redis.Client
	mailer       Mailer
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	employeeRepo employee.Repository,
	rdb *redis.Client,
	mailer Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:         repo,
		employeeRepo: employeeRepo,
		rdb:          rdb,
		mailer:       mailer,
		logger:       l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	return s.issueTokens(user)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToAuthResponse(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	var employeeID *uuid.UUID
	if req.EmployeeID != "" {
		eID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return AuthResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		if _, err := s.employeeRepo.FindByID(ctx, eID.String()); err != nil {
			return AuthResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		employeeID = &eID
	}

	user := &User{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Email:      req.Email,
		Name:       req.Name,
		Password:   string(hashed),
		Role:       "employee",
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return mapToAuthResponse(user), nil
}

func (s *service) RequestOTP(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same outcome as success so the endpoint cannot be used to probe
		// for registered addresses.
		s.logger.Warn("otp requested for unknown email")
		return nil
	}

	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, otpKeyPrefix+email, code, otpTTL).Err(); err != nil {
		s.logger.Error("store otp failed", zap.Error(err))
		return err
	}

	if err := s.mailer.SendOTP(user.Email, code); err != nil {
		s.logger.Error("send otp email failed", zap.Error(err))
		return err
	}

	s.logger.Info("otp sent", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (string, string, AuthResponse, error) {
	// GetDel makes the code single-use even when two verifications race.
	stored, err := s.rdb.GetDel(ctx, otpKeyPrefix+email).Result()
	if err != nil || stored == "" || stored != code {
		return "", "", AuthResponse{}, autherrors.ErrInvalidOTP
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidOTP
	}

	return s.issueTokens(user)
}

func (s *service) issueTokens(user *User) (string, string, AuthResponse, error) {
	accessToken, err := s.generateToken(user, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	refreshToken, err := s.generateToken(user, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapToAuthResponse(user), nil
}

func (s *service) generateToken(user *User, expiry time.Duration) (string, error) {
	employeeID := ""
	if user.EmployeeID != nil {
		employeeID = user.EmployeeID.String()
	}

	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"employee_id": employeeID,
		"role":        user.Role,
		"exp":         time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func mapToAuthResponse(user *User) AuthResponse {
	resp := AuthResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if user.EmployeeID != nil {
		resp.EmployeeID = user.EmployeeID.String()
	}
	return resp
}
