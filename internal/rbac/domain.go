package rbac

// Role is a user role stored on the account.
type Role string

// Roles recognised by the application.
const (
	RoleStockManager Role = "stock_manager"
	RoleCashier      Role = "cashier"
	RoleClient       Role = "client"
	RoleHR           Role = "hr"
	RoleSupervisor   Role = "supervisor"
)

// ParseRole maps a stored role string onto a Role constant.
// Unknown values yield ok=false so callers can reject stale sessions.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleStockManager, RoleCashier, RoleClient, RoleHR, RoleSupervisor:
		return Role(raw), true
	default:
		return "", false
	}
}

// HomePath returns the default landing route for a role.
func (r Role) HomePath() string {
	switch r {
	case RoleStockManager:
		return "/api/inventory/lots"
	case RoleCashier:
		return "/api/sales"
	case RoleClient:
		return "/api/loyalty/me"
	case RoleHR:
		return "/api/hr/employees"
	case RoleSupervisor:
		return "/api/reports/overview"
	default:
		return "/"
	}
}
