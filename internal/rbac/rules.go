package rbac

// Simple default policy. Teachers do everything the form offers; admin is a
// superset reserved for future surfaces.
var RolePermissions = map[string][]string{
	"teacher": {
		"melc:view",
		"melc:add",
		"tos:preview",
		"tos:generate",
		"exports:list",
		"exports:download",
	},
	"admin": {
		"*", // everything
	},
}
