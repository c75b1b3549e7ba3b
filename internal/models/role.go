package models

import (
	"fmt"
	"strings"
)

// Role is the access tier assigned to every user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTeam   Role = "team"
	RolePublic Role = "public"
	RoleViewer Role = "viewer"
)

// DefaultRole is assigned to accounts created through OAuth login.
const DefaultRole = RolePublic

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleTeam, RolePublic, RoleViewer}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeam, RolePublic, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}
