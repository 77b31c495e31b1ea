package domain

// Role is the privilege level of a user account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleLeader Role = "LEADER"
	RoleParent Role = "PARENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeader, RoleParent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
