package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongminglow/gestionrh/internal/auth"
	"github.com/hongminglow/gestionrh/internal/commands"
	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/models/dto"
	"github.com/hongminglow/gestionrh/internal/storage"
)

func newAccountCmd() *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manage console accounts",
	}

	var in dto.NewAccount
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account; the password is prompted twice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			password, err := rt.con.ReadSecret(cmd.Context(), "Password: ")
			if err != nil {
				return err
			}
			confirm, err := rt.con.ReadSecret(cmd.Context(), "Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			in.Username = strings.TrimSpace(in.Username)
			in.Role = strings.ToLower(strings.TrimSpace(in.Role))
			in.Password = password
			if err := commands.Validate(in); err != nil {
				return err
			}
			role, err := models.ParseRole(in.Role)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			created, err := rt.store.CreateAccount(cmd.Context(), models.Account{
				Username:     in.Username,
				PasswordHash: hash,
				Role:         role,
			})
			if err != nil {
				if errors.Is(err, storage.ErrAlreadyExists) {
					return fmt.Errorf("account %q already exists", in.Username)
				}
				return fmt.Errorf("create account: %w", err)
			}
			rt.con.Success("Account %s created with role %s.", created.Username, created.Role.Title())
			rt.log.Info().Int64("account_id", created.ID).Str("role", created.Role.String()).Msg("account created")
			return nil
		},
	}
	create.Flags().StringVar(&in.Username, "username", "", "login name")
	create.Flags().StringVar(&in.Role, "role", "staff", "admin, manager or staff")
	_ = create.MarkFlagRequired("username")

	account.AddCommand(create)
	return account
}
