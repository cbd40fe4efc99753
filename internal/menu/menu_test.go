package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/gestionrh/internal/models"
)

func commands(entries []Entry) []Command {
	out := make([]Command, len(entries))
	for i, e := range entries {
		out[i] = e.Command
	}
	return out
}

func TestBuildForReadOnlyRoles(t *testing.T) {
	for _, role := range []models.Role{models.RoleNone, models.RoleStaff} {
		assert.Equal(t, []Command{ListEmployees, Quit}, commands(Build(role)), role.String())
	}
}

func TestBuildForManagingRoles(t *testing.T) {
	want := []Command{ListEmployees, AddEmployee, AddContract, AddAmendment, RemoveEmployee, Quit}
	for _, role := range []models.Role{models.RoleManager, models.RoleAdmin} {
		assert.Equal(t, want, commands(Build(role)), role.String())
	}
}

func TestBuildReturnsFreshSlice(t *testing.T) {
	first := Build(models.RoleAdmin)
	first[0].Label = "changed"
	assert.Equal(t, "List active employees", Build(models.RoleAdmin)[0].Label)
}

func TestAllCoversCatalog(t *testing.T) {
	assert.Len(t, All(), 6)
}
