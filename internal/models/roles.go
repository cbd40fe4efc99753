package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of access levels an account can hold.
type Role int

const (
	RoleNone Role = iota
	RoleStaff
	RoleManager
	RoleAdmin
)

// Permission names a capability checked when building the command menu.
type Permission int

const (
	PermViewEmployees Permission = iota + 1
	PermManageStaff
	PermAdminister
)

var roleNames = map[Role]string{
	RoleNone:    "none",
	RoleStaff:   "staff",
	RoleManager: "manager",
	RoleAdmin:   "admin",
}

var rolePermissions = map[Role][]Permission{
	RoleStaff:   {PermViewEmployees},
	RoleManager: {PermViewEmployees, PermManageStaff},
	RoleAdmin:   {PermViewEmployees, PermManageStaff, PermAdminister},
}

// ParseRole maps a stored role label to a Role. Legacy French labels are accepted.
func ParseRole(label string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "admin", "administrator":
		return RoleAdmin, nil
	case "manager", "gestionnaire":
		return RoleManager, nil
	case "staff", "user", "employe", "employé":
		return RoleStaff, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", label)
}

// String returns the canonical stored label.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Title is the label shown in the menu header.
func (r Role) Title() string {
	name := r.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Can reports whether the role grants p.
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}
