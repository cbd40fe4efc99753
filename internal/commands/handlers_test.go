package commands

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/gestionrh/internal/auth"
	"github.com/hongminglow/gestionrh/internal/console"
	"github.com/hongminglow/gestionrh/internal/menu"
	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/storage"
)

// stubStore keeps rows in memory and counts calls so tests can assert no database access.
type stubStore struct {
	employees  map[int64]models.Employee
	contracts  map[int64]models.Contract
	amendments []models.Amendment
	calls      int
	fail       error
	listFail   error
}

func newStubStore() *stubStore {
	return &stubStore{employees: map[int64]models.Employee{}, contracts: map[int64]models.Contract{}}
}

func (s *stubStore) CreateEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.calls++
	if s.fail != nil {
		return models.Employee{}, s.fail
	}
	e.ID = int64(len(s.employees) + 1)
	s.employees[e.ID] = e
	return e, nil
}

func (s *stubStore) FindEmployee(_ context.Context, id int64) (models.Employee, error) {
	s.calls++
	e, ok := s.employees[id]
	if !ok {
		return models.Employee{}, storage.ErrNotFound
	}
	return e, nil
}

func (s *stubStore) ListEmployees(_ context.Context, filter storage.EmployeeFilter) ([]models.Employee, error) {
	s.calls++
	var out []models.Employee
	for _, e := range s.employees {
		if filter.IncludeRemoved || !e.Removed {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) SoftDeleteEmployee(_ context.Context, id int64) (int64, error) {
	s.calls++
	e, ok := s.employees[id]
	if !ok || e.Removed {
		return 0, nil
	}
	e.Removed = true
	s.employees[id] = e
	return 1, nil
}

func (s *stubStore) CreateContract(_ context.Context, c models.Contract) (models.Contract, error) {
	s.calls++
	if _, ok := s.employees[c.EmployeeID]; !ok {
		return models.Contract{}, storage.ErrMissingReference
	}
	c.ID = int64(len(s.contracts) + 1)
	s.contracts[c.ID] = c
	return c, nil
}

func (s *stubStore) CreateAmendment(_ context.Context, a models.Amendment) (models.Amendment, error) {
	s.calls++
	if _, ok := s.contracts[a.ContractID]; !ok {
		return models.Amendment{}, storage.ErrMissingReference
	}
	a.Ordinal = 1
	for _, existing := range s.amendments {
		if existing.ContractID == a.ContractID && existing.Ordinal >= a.Ordinal {
			a.Ordinal = existing.Ordinal + 1
		}
	}
	s.amendments = append(s.amendments, a)
	return a, nil
}

func (s *stubStore) ListAmendments(_ context.Context, contractID int64) ([]models.Amendment, error) {
	if s.listFail != nil {
		return nil, s.listFail
	}
	var out []models.Amendment
	for _, a := range s.amendments {
		if a.ContractID == contractID {
			out = append(out, a)
		}
	}
	return out, nil
}

func run(t *testing.T, store *stubStore, cmd menu.Command, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	h := New(store, console.New(strings.NewReader(input), &out), zerolog.Nop())
	fn, ok := h.Lookup(cmd)
	require.True(t, ok)
	err := fn(context.Background(), auth.Session{Username: "tester", Role: models.RoleManager})
	return out.String(), err
}

func TestLookupBindsEveryCommandButQuit(t *testing.T) {
	h := New(newStubStore(), console.New(strings.NewReader(""), &bytes.Buffer{}), zerolog.Nop())
	for _, cmd := range menu.All() {
		_, ok := h.Lookup(cmd)
		assert.Equal(t, cmd != menu.Quit, ok, "command %d", cmd)
	}
}

func TestAddEmployeeUppercasesSurname(t *testing.T) {
	store := newStubStore()
	out, err := run(t, store, menu.AddEmployee, "dupont\nJean\ncoiffeur\n")
	require.NoError(t, err)

	require.Len(t, store.employees, 1)
	e := store.employees[1]
	assert.Equal(t, "DUPONT", e.Surname)
	assert.Equal(t, "Jean", e.GivenName)
	assert.Equal(t, "coiffeur", e.JobTitle)
	assert.False(t, e.Removed)
	assert.Contains(t, out, "Employee 1 added.")
}

func TestAddEmployeeSurfacesFault(t *testing.T) {
	store := newStubStore()
	store.fail = errors.New("value too long for type character varying(50)")
	_, err := run(t, store, menu.AddEmployee, "dupont\nJean\ncoiffeur\n")
	assert.EqualError(t, err, "value too long for type character varying(50)")
}

func TestListEmployees(t *testing.T) {
	store := newStubStore()
	out, err := run(t, store, menu.ListEmployees, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No employees found.")

	store.employees[1] = models.Employee{ID: 1, Surname: "DUPONT", GivenName: "Jean", JobTitle: "coiffeur"}
	store.employees[2] = models.Employee{ID: 2, Surname: "GONE", GivenName: "Paul", JobTitle: "x", Removed: true}
	out, err = run(t, store, menu.ListEmployees, "")
	require.NoError(t, err)
	assert.Contains(t, out, "DUPONT")
	assert.NotContains(t, out, "GONE")
}

func TestAddContractValidation(t *testing.T) {
	cases := map[string]string{
		"abc\n":                   "Invalid employee id",
		"1\n31/02/2024\n":         "Invalid start date",
		"1\n01/02/2024\nsoon\n":   "Invalid end date",
		"1\n01/02/2024\n\nlots\n": "Invalid salary",
		"0\n":                     "Invalid employee id: 0 must be greater than 0",
		"-4\n":                    "Invalid employee id: -4 must be greater than 0",
	}
	for input, want := range cases {
		store := newStubStore()
		store.employees[1] = models.Employee{ID: 1}
		out, err := run(t, store, menu.AddContract, input)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr, input)
		assert.Contains(t, inputErr.Message, want, input)
		assert.Zero(t, store.calls, "no database call for %q", input)
		if strings.HasPrefix(want, "Invalid employee id") {
			assert.NotContains(t, out, "Start date", "stops at the id for %q", input)
		}
	}
}

func TestAddContract(t *testing.T) {
	store := newStubStore()
	store.employees[1] = models.Employee{ID: 1, Surname: "DUPONT"}

	out, err := run(t, store, menu.AddContract, "1\n01/02/2024\n\n1800,50\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Contract 1 created for employee 1.")

	c := store.contracts[1]
	assert.Nil(t, c.EndDate)
	assert.Equal(t, models.Amount("1800.50"), c.Salary)
	assert.Equal(t, "2024-02-01", c.StartDate.Format(storage.DateLayout))

	_, err = run(t, store, menu.AddContract, "1\n01/02/2024\n31/12/2024\n1800\n")
	require.NoError(t, err)
	require.NotNil(t, store.contracts[2].EndDate)
	assert.Equal(t, "2024-12-31", store.contracts[2].EndDate.Format(storage.DateLayout))
}

func TestAddContractMissingEmployee(t *testing.T) {
	store := newStubStore()
	out, err := run(t, store, menu.AddContract, "999\n01/02/2024\n\n1800\n")
	require.NoError(t, err)
	assert.Contains(t, out, "employee 999 does not exist")
	assert.Empty(t, store.contracts)
}

func TestAddAmendmentOrdinals(t *testing.T) {
	store := newStubStore()
	store.employees[1] = models.Employee{ID: 1}
	store.contracts[1] = models.Contract{ID: 1, EmployeeID: 1}
	store.contracts[2] = models.Contract{ID: 2, EmployeeID: 1}

	out, err := run(t, store, menu.AddAmendment, "2\n01/06/2024\nmanager\n2000\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Amendment #1 added to contract 2.")

	for i := 0; i < 2; i++ {
		_, err = run(t, store, menu.AddAmendment, "1\n01/06/2024\nmanager\n2000\n")
		require.NoError(t, err)
	}
	out, err = run(t, store, menu.AddAmendment, "1\n01/07/2024\ndirector\n2500\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Amendment #3 added to contract 1.")

	history := out[strings.Index(out, "Amendments of contract 1"):]
	assert.Contains(t, history, "1 | 01/06/2024 | manager")
	assert.Contains(t, history, "3 | 01/07/2024 | director  | 2500.00")
	assert.NotContains(t, history, "contract 2")
}

func TestAddAmendmentHistoryFailureIsNotFatal(t *testing.T) {
	store := newStubStore()
	store.contracts[1] = models.Contract{ID: 1}
	store.listFail = errors.New("connection reset")

	out, err := run(t, store, menu.AddAmendment, "1\n01/06/2024\nmanager\n2000\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Amendment #1 added to contract 1.")
	assert.NotContains(t, out, "Amendments of contract 1")
	assert.Len(t, store.amendments, 1)
}

func TestAddAmendmentMissingContract(t *testing.T) {
	store := newStubStore()
	out, err := run(t, store, menu.AddAmendment, "42\n01/06/2024\nmanager\n2000\n")
	require.NoError(t, err)
	assert.Contains(t, out, "contract 42 does not exist")
	assert.Empty(t, store.amendments)
}

func TestRemoveEmployeeTwice(t *testing.T) {
	store := newStubStore()
	store.employees[5] = models.Employee{ID: 5, Surname: "DUPONT"}

	out, err := run(t, store, menu.RemoveEmployee, "5\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee 5 marked as removed.")
	assert.True(t, store.employees[5].Removed)

	out, err = run(t, store, menu.RemoveEmployee, "5\n")
	require.NoError(t, err)
	assert.Contains(t, out, "No active employee found with id 5.")
	assert.True(t, store.employees[5].Removed)
}

func TestRemoveEmployeeReportsBadInput(t *testing.T) {
	for _, input := range []string{"five\n", "0\n", "-3\n"} {
		store := newStubStore()
		_, err := run(t, store, menu.RemoveEmployee, input)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr, input)
		assert.Contains(t, inputErr.Message, "Invalid employee id", input)
		assert.Zero(t, store.calls, input)
	}
}
