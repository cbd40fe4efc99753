package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hongminglow/gestionrh/internal/app"
	"github.com/hongminglow/gestionrh/internal/export"
	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/storage"
)

func newExportCmd() *cobra.Command {
	var out string
	var includeRemoved bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write employees to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			a := app.New(rt.store, rt.con, rt.log)
			sess, err := openSession(cmd.Context(), rt, a, false)
			if err != nil {
				return err
			}
			if !sess.Role.Can(models.PermViewEmployees) {
				return errors.New("this account cannot export employees")
			}
			if includeRemoved && !sess.Role.Can(models.PermManageStaff) {
				return errors.New("--include-removed needs a manager or admin account")
			}

			employees, err := rt.store.ListEmployees(cmd.Context(), storage.EmployeeFilter{IncludeRemoved: includeRemoved})
			if err != nil {
				return fmt.Errorf("list employees: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.Employees(f, employees); err != nil {
				f.Close()
				return fmt.Errorf("write workbook: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			rt.con.Success("%d employees written to %s.", len(employees), out)
			rt.log.Info().Str("session", sess.ID.String()).Int("count", len(employees)).Str("file", out).Msg("employees exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "employees.xlsx", "destination workbook")
	cmd.Flags().BoolVar(&includeRemoved, "include-removed", false, "also export soft-deleted employees")
	return cmd
}
