package user

// Role is carried in the access token's "role" claim.
type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Reviews requests and payroll
	RoleEmployee Role = "employee" // Regular employee
)

// Claims is the subset of token claims the service relies on.
type Claims struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       Role
}

func (c Claims) IsReviewer() bool {
	return c.Role == RoleManager || c.Role == RoleOwner
}
