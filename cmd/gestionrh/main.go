package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hongminglow/gestionrh/internal/app"
	"github.com/hongminglow/gestionrh/internal/auth"
	"github.com/hongminglow/gestionrh/internal/config"
	"github.com/hongminglow/gestionrh/internal/console"
	"github.com/hongminglow/gestionrh/internal/database"
	"github.com/hongminglow/gestionrh/internal/logger"
	"github.com/hongminglow/gestionrh/internal/storage"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	loadLocalEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	// an interrupt at a prompt ends the session like end of input
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
	os.Exit(exitOK)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("read .env: %v", err)
	}
}

// runtime is what every subcommand needs once configuration is loaded.
type runtime struct {
	cfg    config.Config
	log    zerolog.Logger
	store  storage.Store
	con    *console.Console
	closer io.Closer
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	lg, closer, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	store, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	lg.Debug().Str("database", store.Name()).Msg("database ready")
	return &runtime{
		cfg:    cfg,
		log:    lg,
		store:  store,
		con:    console.New(os.Stdin, os.Stdout),
		closer: closer,
	}, nil
}

func (r *runtime) Close() {
	r.store.Close()
	_ = r.closer.Close()
}

func newRootCmd() *cobra.Command {
	var remember bool
	root := &cobra.Command{
		Use:           "gestionrh",
		Short:         "HR console: employees, contracts and amendments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if remember && !rt.cfg.RememberEnabled() {
				return errors.New("--remember needs SESSION_SECRET to be set")
			}
			a := app.New(rt.store, rt.con, rt.log)
			sess, err := openSession(cmd.Context(), rt, a, remember)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), sess)
		},
	}
	root.Flags().BoolVar(&remember, "remember", false, "keep the session signed in until SESSION_TTL elapses")

	root.AddCommand(newAccountCmd(), newExportCmd(), newHealthCmd(), newLogoutCmd())
	return root
}

// openSession resumes a remembered session when one is valid, otherwise prompts for credentials.
func openSession(ctx context.Context, rt *runtime, a *app.App, remember bool) (auth.Session, error) {
	var tickets *auth.TicketManager
	if rt.cfg.RememberEnabled() {
		tickets = auth.NewTicketManager(rt.cfg.Session.Secret, rt.cfg.Session.Issuer, rt.cfg.Session.TTL)
		if sess, err := resume(ctx, rt, a.Authenticator(), tickets); err == nil {
			rt.con.Success("Resumed session for %s (%s).", sess.Username, sess.Role.Title())
			return sess, nil
		}
	}

	sess, err := a.Login(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return auth.Session{}, errors.New("authentication failed")
		}
		return auth.Session{}, err
	}

	if remember {
		ticket, err := tickets.Issue(sess)
		if err == nil {
			err = auth.SaveTicket(rt.cfg.Session.File, ticket)
		}
		if err != nil {
			rt.con.Warn("Could not remember the session: %v", err)
			rt.log.Warn().Err(err).Msg("save session ticket")
		}
	}
	return sess, nil
}

func resume(ctx context.Context, rt *runtime, authn *auth.Authenticator, tickets *auth.TicketManager) (auth.Session, error) {
	raw, err := auth.LoadTicket(rt.cfg.Session.File)
	if err != nil {
		return auth.Session{}, err
	}
	ticket, err := tickets.Verify(raw)
	if err == nil {
		var sess auth.Session
		if sess, err = authn.Resume(ctx, ticket.Username, ticket.Role); err == nil {
			rt.log.Info().Str("session", sess.ID.String()).Str("user", sess.Username).Msg("session resumed")
			return sess, nil
		}
	}
	if errors.Is(err, auth.ErrTicketInvalid) {
		_ = auth.RemoveTicket(rt.cfg.Session.File)
	}
	rt.log.Debug().Err(err).Msg("remembered session not usable")
	return auth.Session{}, err
}
