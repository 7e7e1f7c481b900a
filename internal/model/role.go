package model

import "strings"

// Role is the permission tier of the user asking for alerts.
type Role string

// Known roles.
const (
	RoleAdmin      Role = "admin"
	RoleCashier    Role = "cashier"
	RoleTechnician Role = "technician"
)

// Known reports whether r is one of the defined roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleTechnician:
		return true
	}
	return false
}

// ParseRole maps a role name to a Role. Spanish names are accepted.
// Unrecognised names fall back to RoleAdmin with ok=false so the caller can
// log the anomaly; visibility fails open.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return RoleAdmin, true
	case "cashier", "cajero":
		return RoleCashier, true
	case "technician", "tecnico", "técnico":
		return RoleTechnician, true
	default:
		return RoleAdmin, false
	}
}
