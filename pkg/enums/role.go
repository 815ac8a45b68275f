package enums

import "fmt"

// Role represents the permission level attached to a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

var validRoles = []Role{
	RoleCustomer,
	RoleStaff,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role grants access to any resource
// regardless of ownership.
func (r Role) IsStaff() bool {
	return r == RoleStaff
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
