// Package menu builds the role-gated list of console commands.
package menu

import "github.com/hongminglow/gestionrh/internal/models"

// Command tags a console command. Handlers are bound to tags, never to names.
type Command int

const (
	ListEmployees Command = iota + 1
	AddEmployee
	AddContract
	AddAmendment
	RemoveEmployee
	Quit
)

// Entry is one numbered line of the menu.
type Entry struct {
	Label   string
	Command Command
}

type catalogEntry struct {
	Entry
	// zero means always shown
	requires models.Permission
}

// catalog order is the displayed order. Admin-only commands go after the
// PermManageStaff block and before Quit, gated by models.PermAdminister.
var catalog = []catalogEntry{
	{Entry{"List active employees", ListEmployees}, 0},
	{Entry{"Add an employee", AddEmployee}, models.PermManageStaff},
	{Entry{"Create a contract for an employee", AddContract}, models.PermManageStaff},
	{Entry{"Add an amendment to a contract", AddAmendment}, models.PermManageStaff},
	{Entry{"Remove an employee (soft delete)", RemoveEmployee}, models.PermManageStaff},
	{Entry{"Quit", Quit}, 0},
}

// Build returns the entries available to role, in display order. The list
// always starts with the employee listing and ends with Quit.
func Build(role models.Role) []Entry {
	entries := make([]Entry, 0, len(catalog))
	for _, c := range catalog {
		if c.requires == 0 || role.Can(c.requires) {
			entries = append(entries, c.Entry)
		}
	}
	return entries
}

// All lists every command tag, for binding checks.
func All() []Command {
	out := make([]Command, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, c.Command)
	}
	return out
}
