// Package commands implements the console commands offered by the menu.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/gestionrh/internal/auth"
	"github.com/hongminglow/gestionrh/internal/console"
	"github.com/hongminglow/gestionrh/internal/menu"
	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/models/dto"
	"github.com/hongminglow/gestionrh/internal/storage"
)

// Store is the persistence the commands need.
type Store interface {
	storage.EmployeeStore
	storage.ContractStore
}

// Func runs one command for the session. Returned errors are faults to report;
// outcomes the user should simply read (including "does not exist") are
// printed by the command itself.
type Func func(ctx context.Context, sess auth.Session) error

// Handlers owns the command implementations.
type Handlers struct {
	store Store
	con   *console.Console
	log   zerolog.Logger
}

// New constructs the handlers.
func New(store Store, con *console.Console, log zerolog.Logger) *Handlers {
	return &Handlers{store: store, con: con, log: log}
}

// Lookup returns the function bound to cmd. Quit has no handler.
func (h *Handlers) Lookup(cmd menu.Command) (Func, bool) {
	switch cmd {
	case menu.ListEmployees:
		return h.ListEmployees, true
	case menu.AddEmployee:
		return h.AddEmployee, true
	case menu.AddContract:
		return h.AddContract, true
	case menu.AddAmendment:
		return h.AddAmendment, true
	case menu.RemoveEmployee:
		return h.RemoveEmployee, true
	}
	return nil, false
}

func (h *Handlers) logger(sess auth.Session) *zerolog.Logger {
	l := h.log.With().Str("session", sess.ID.String()).Str("user", sess.Username).Logger()
	return &l
}

// ListEmployees prints active employees ordered by id.
func (h *Handlers) ListEmployees(ctx context.Context, sess auth.Session) error {
	h.con.Title("Active employees")
	employees, err := h.store.ListEmployees(ctx, storage.EmployeeFilter{})
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	if len(employees) == 0 {
		h.con.Info("No employees found.")
		return nil
	}

	table := console.NewTable("ID", "Surname", "Given name", "Job title")
	for _, e := range employees {
		table.AddRow(fmt.Sprint(e.ID), e.Surname, e.GivenName, e.JobTitle)
	}
	h.con.Table(table)
	h.logger(sess).Debug().Int("count", len(employees)).Msg("listed employees")
	return nil
}

// AddEmployee inserts an active employee. The surname is stored upper-cased.
func (h *Handlers) AddEmployee(ctx context.Context, sess auth.Session) error {
	h.con.Title("Add an employee")
	var in dto.NewEmployee
	var err error
	if in.Surname, err = h.con.ReadLine(ctx, "Surname: "); err != nil {
		return err
	}
	if in.GivenName, err = h.con.ReadLine(ctx, "Given name: "); err != nil {
		return err
	}
	if in.JobTitle, err = h.con.ReadLine(ctx, "Job title: "); err != nil {
		return err
	}

	created, err := h.store.CreateEmployee(ctx, models.Employee{
		Surname:   strings.ToUpper(in.Surname),
		GivenName: in.GivenName,
		JobTitle:  in.JobTitle,
	})
	if err != nil {
		return err
	}
	h.con.Success("Employee %d added.", created.ID)
	h.logger(sess).Info().Int64("employee_id", created.ID).Msg("employee added")
	return nil
}

// AddContract creates a contract for an existing employee.
func (h *Handlers) AddContract(ctx context.Context, sess auth.Session) error {
	h.con.Title("Create a contract")
	var in dto.NewContract

	raw, err := h.con.ReadLine(ctx, "Employee id: ")
	if err != nil {
		return err
	}
	if in.EmployeeID, err = parseID(raw, "employee id"); err != nil {
		return err
	}

	if raw, err = h.con.ReadLine(ctx, "Start date (DD/MM/YYYY): "); err != nil {
		return err
	}
	if in.StartDate, err = parseDate(raw, "start date"); err != nil {
		return err
	}

	if raw, err = h.con.ReadLine(ctx, "End date (DD/MM/YYYY, empty if open-ended): "); err != nil {
		return err
	}
	if in.EndDate, err = parseOptionalDate(raw, "end date"); err != nil {
		return err
	}

	if raw, err = h.con.ReadLine(ctx, "Monthly salary: "); err != nil {
		return err
	}
	if in.Salary, err = parseAmount(raw, "salary"); err != nil {
		return err
	}

	if err := Validate(in); err != nil {
		return err
	}

	created, err := h.store.CreateContract(ctx, models.Contract{
		EmployeeID: in.EmployeeID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Salary:     in.Salary,
	})
	if err != nil {
		if errors.Is(err, storage.ErrMissingReference) {
			h.con.Error("Error: employee %d does not exist.", in.EmployeeID)
			return nil
		}
		return err
	}
	h.con.Success("Contract %d created for employee %d.", created.ID, created.EmployeeID)
	h.logger(sess).Info().Int64("contract_id", created.ID).Int64("employee_id", created.EmployeeID).Msg("contract created")
	return nil
}

// AddAmendment appends an amendment to a contract with the next ordinal.
func (h *Handlers) AddAmendment(ctx context.Context, sess auth.Session) error {
	h.con.Title("Add an amendment")
	var in dto.NewAmendment

	raw, err := h.con.ReadLine(ctx, "Contract id: ")
	if err != nil {
		return err
	}
	if in.ContractID, err = parseID(raw, "contract id"); err != nil {
		return err
	}

	if raw, err = h.con.ReadLine(ctx, "Amendment date (DD/MM/YYYY): "); err != nil {
		return err
	}
	if in.EffectiveOn, err = parseDate(raw, "amendment date"); err != nil {
		return err
	}

	if in.JobTitle, err = h.con.ReadLine(ctx, "New job title: "); err != nil {
		return err
	}

	if raw, err = h.con.ReadLine(ctx, "New salary: "); err != nil {
		return err
	}
	if in.Salary, err = parseAmount(raw, "salary"); err != nil {
		return err
	}

	if err := Validate(in); err != nil {
		return err
	}

	created, err := h.store.CreateAmendment(ctx, models.Amendment{
		ContractID:  in.ContractID,
		EffectiveOn: in.EffectiveOn,
		JobTitle:    in.JobTitle,
		Salary:      in.Salary,
	})
	if err != nil {
		if errors.Is(err, storage.ErrMissingReference) {
			h.con.Error("Error: contract %d does not exist.", in.ContractID)
			return nil
		}
		return err
	}
	h.con.Success("Amendment #%d added to contract %d.", created.Ordinal, created.ContractID)
	log := h.logger(sess)
	log.Info().Int64("contract_id", created.ContractID).Int("ordinal", created.Ordinal).Msg("amendment added")

	// the amendment is committed; a failed history read is only logged
	history, err := h.store.ListAmendments(ctx, created.ContractID)
	if err != nil {
		log.Warn().Err(err).Int64("contract_id", created.ContractID).Msg("list amendments")
		return nil
	}
	h.con.Title(fmt.Sprintf("Amendments of contract %d", created.ContractID))
	table := console.NewTable("#", "Effective", "Job title", "Salary")
	for _, a := range history {
		table.AddRow(fmt.Sprint(a.Ordinal), a.EffectiveOn.Format(displayDate), a.JobTitle, a.Salary.String())
	}
	h.con.Table(table)
	return nil
}

// RemoveEmployee soft-deletes an active employee.
func (h *Handlers) RemoveEmployee(ctx context.Context, sess auth.Session) error {
	h.con.Title("Remove an employee")
	var in dto.RemoveEmployee

	raw, err := h.con.ReadLine(ctx, "Employee id: ")
	if err != nil {
		return err
	}
	if in.EmployeeID, err = parseID(raw, "employee id"); err != nil {
		return err
	}
	if err := Validate(in); err != nil {
		return err
	}

	n, err := h.store.SoftDeleteEmployee(ctx, in.EmployeeID)
	if err != nil {
		return err
	}
	if n == 0 {
		h.con.Info("No active employee found with id %d.", in.EmployeeID)
		return nil
	}
	h.con.Success("Employee %d marked as removed.", in.EmployeeID)
	h.logger(sess).Info().Int64("employee_id", in.EmployeeID).Msg("employee removed")
	return nil
}
