package rbac

const (
	RoleEmployee   = "employee"
	RoleHR         = "hr"
	RoleSuperAdmin = "super_admin"
)
