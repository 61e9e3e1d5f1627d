package constants

import (
	"fmt"
	"strings"
)

// Role is the normalized caller role. Tokens and legacy rows may carry the role
// as a plain string or as an object {"name": "..."}; ParseRole folds both.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleLeader Role = "Leader"
	RoleMember Role = "Member"
)

// role error message templates
const (
	ErrOnlyAdminsCanAccess  = "Only Admin can access %s."
	ErrOnlyLeadersCanAccess = "Only Admin or Leader can access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorLeader(feature string) string {
	return fmt.Sprintf(ErrOnlyLeadersCanAccess, feature)
}

var (
	AllRoles = []Role{
		RoleAdmin,
		RoleLeader,
		RoleMember,
	}

	LeaderAndAbove = []Role{
		RoleAdmin,
		RoleLeader,
	}

	AdminOnly = []Role{
		RoleAdmin,
	}
)

// ParseRole accepts "admin", "Admin", {"name":"Leader"} and friends.
// Anything unrecognized collapses to RoleMember.
func ParseRole(v any) Role {
	switch t := v.(type) {
	case Role:
		return ParseRole(string(t))
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "admin":
			return RoleAdmin
		case "leader":
			return RoleLeader
		default:
			return RoleMember
		}
	case map[string]any:
		return ParseRole(t["name"])
	case map[string]string:
		return ParseRole(t["name"])
	default:
		return RoleMember
	}
}

// IsKnownRole reports whether s names one of the three roles exactly (case-insensitive).
func IsKnownRole(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "leader", "member":
		return true
	}
	return false
}

func (r Role) In(roles []Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}
