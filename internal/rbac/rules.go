package rbac

// Permission names used by the router.
const (
	PermDivisionsList   = "divisions:list"
	PermEmployeesList   = "employees:list"
	PermEmployeesCreate = "employees:create"
	PermEmployeesUpdate = "employees:update"
	PermEmployeesDelete = "employees:delete"
)

// RolePermissions is the default policy. Patterns ending in "*" match by prefix.
var RolePermissions = map[string][]string{
	"viewer": {
		PermDivisionsList,
		PermEmployeesList,
	},
	"admin": {
		"divisions:*",
		"employees:*",
	},
}
