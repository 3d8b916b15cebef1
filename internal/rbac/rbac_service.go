package rbac

import (
	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

// seedPolicies installs the static role model: employees fill in their own
// onboarding, hr reviews it and manages the board, super_admin gets
// everything hr gets.
func seedPolicies(e *casbin.Enforcer) error {
	policies := [][]string{
		{RoleEmployee, "applications", "create"},
		{RoleEmployee, "applications", "read"},
		{RoleEmployee, "applications", "submit"},
		{RoleEmployee, "forms", "save"},
		{RoleEmployee, "forms", "read"},

		{RoleHR, "reviews", "decide"},
		{RoleHR, "reviews", "approve"},
		{RoleHR, "employees", "create"},
		{RoleHR, "employees", "read"},
		{RoleHR, "tasks", "read"},
		{RoleHR, "tasks", "move"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{RoleHR, RoleEmployee},
		{RoleSuperAdmin, RoleHR},
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
