package authz

const (
	RoleMember = 10
	RoleAdmin  = 50
)

func IsAdmin(roleID int) bool {
	return roleID == RoleAdmin
}

// RoleName is used in logs and API payloads.
func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	}
	return "unknown"
}
