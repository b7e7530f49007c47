package domain

// Role is the closed set of principal variants. There is no third case:
// every lookup and dispatch switches over exactly these two values.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Principal is the resolved authenticated actor behind a session. Exactly
// one of Admin/Employee is set, matching Role.
type Principal struct {
	Role     Role
	Admin    *Admin
	Employee *Employee
}

// ID returns the identifier of the underlying record.
func (p *Principal) ID() string {
	switch p.Role {
	case RoleAdmin:
		if p.Admin != nil {
			return p.Admin.ID
		}
	case RoleEmployee:
		if p.Employee != nil {
			return p.Employee.ID
		}
	}
	return ""
}

// DisplayName returns the human-readable name of the principal.
func (p *Principal) DisplayName() string {
	switch p.Role {
	case RoleAdmin:
		if p.Admin != nil {
			return p.Admin.Name
		}
	case RoleEmployee:
		if p.Employee != nil {
			return p.Employee.Name
		}
	}
	return ""
}

// Email returns the case-folded email of the principal.
func (p *Principal) Email() string {
	switch p.Role {
	case RoleAdmin:
		if p.Admin != nil {
			return p.Admin.Email
		}
	case RoleEmployee:
		if p.Employee != nil {
			return p.Employee.Email
		}
	}
	return ""
}
