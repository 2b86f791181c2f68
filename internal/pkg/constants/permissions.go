package constants

const (
	ViewProperties   = "view_properties"
	CreateProperty   = "create_property"
	ArchiveProperty  = "archive_property"
	ManagePreference = "manage_preference"
	ManageUsers      = "manage_users"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewProperties:   {User, Agent, Admin},
	CreateProperty:   {Agent, Admin},
	ArchiveProperty:  {Agent, Admin},
	ManagePreference: {User, Agent, Admin},
	ManageUsers:      {Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
