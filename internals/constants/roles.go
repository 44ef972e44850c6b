package constants

// Closed role set. Every authorization decision works off these three.
const (
	RoleAdmin   = "ADMIN"
	RoleTutor   = "TUTOR"
	RoleStudent = "STUDENT"
)

var (
	AllRoles = []string{
		RoleAdmin,
		RoleTutor,
		RoleStudent,
	}

	StaffRoles = []string{
		RoleAdmin,
		RoleTutor,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	TutorOnly = []string{
		RoleTutor,
	}

	StudentOnly = []string{
		RoleStudent,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
