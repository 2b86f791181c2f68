package constants

const (
	Admin = "admin"
	Agent = "agent"
	User  = "user"
)

// ValidRoles is the set of allowed values for Users.role.
var ValidRoles = []string{User, Agent, Admin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
