package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/gestionrh/internal/auth"
	"github.com/hongminglow/gestionrh/internal/commands"
	"github.com/hongminglow/gestionrh/internal/console"
	"github.com/hongminglow/gestionrh/internal/menu"
	"github.com/hongminglow/gestionrh/internal/storage"
)

// App wires the store, the console and the command handlers together.
type App struct {
	store    storage.Store
	con      *console.Console
	log      zerolog.Logger
	authn    *auth.Authenticator
	handlers *commands.Handlers
}

// New builds a ready console application.
func New(store storage.Store, con *console.Console, log zerolog.Logger) *App {
	return &App{
		store:    store,
		con:      con,
		log:      log,
		authn:    auth.NewAuthenticator(store),
		handlers: commands.New(store, con, log),
	}
}

// Authenticator exposes the authenticator for remembered sessions.
func (a *App) Authenticator() *auth.Authenticator {
	return a.authn
}

// Login prompts for credentials once. Failures are printed before being returned.
func (a *App) Login(ctx context.Context) (auth.Session, error) {
	a.con.Title("=== HR AUTHENTICATION ===")
	username, err := a.con.ReadLine(ctx, "Username: ")
	if err != nil {
		return auth.Session{}, err
	}
	password, err := a.con.ReadSecret(ctx, "Password: ")
	if err != nil {
		return auth.Session{}, err
	}

	sess, err := a.authn.Login(ctx, username, password)
	switch {
	case err != nil && ctx.Err() != nil:
		return auth.Session{}, ctx.Err()
	case err == nil:
		a.con.Success("Login successful. Welcome %s (%s).", sess.Username, sess.Role.Title())
		a.log.Info().Str("session", sess.ID.String()).Str("user", sess.Username).Str("role", sess.Role.String()).Msg("login")
		return sess, nil
	case errors.Is(err, auth.ErrInvalidCredentials):
		a.con.Error("Invalid username or password.")
		a.log.Warn().Str("user", strings.TrimSpace(username)).Msg("login rejected")
	default:
		a.con.Error("Connection error: %v", err)
		a.log.Error().Err(err).Msg("login failed")
	}
	return auth.Session{}, err
}

type boundEntry struct {
	menu.Entry
	run commands.Func
}

// bind resolves every entry to its handler once, when the menu is built.
func (a *App) bind(entries []menu.Entry) ([]boundEntry, error) {
	bound := make([]boundEntry, 0, len(entries))
	for _, e := range entries {
		b := boundEntry{Entry: e}
		if e.Command != menu.Quit {
			fn, ok := a.handlers.Lookup(e.Command)
			if !ok {
				return nil, fmt.Errorf("no handler bound to menu entry %q", e.Label)
			}
			b.run = fn
		}
		bound = append(bound, b)
	}
	return bound, nil
}

// Run shows the menu for the session until Quit is chosen or input ends.
func (a *App) Run(ctx context.Context, sess auth.Session) error {
	entries, err := a.bind(menu.Build(sess.Role))
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		a.render(sess, entries)
		line, err := a.con.ReadLine(ctx, "Your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		choice, ok := parseChoice(line, len(entries))
		if !ok {
			a.con.Warn("Invalid choice.")
			continue
		}
		entry := entries[choice-1]
		if entry.Command == menu.Quit {
			a.log.Info().Str("session", sess.ID.String()).Msg("quit")
			return nil
		}
		if stop := a.dispatch(ctx, sess, entry); stop {
			return nil
		}
	}
}

func (a *App) render(sess auth.Session, entries []boundEntry) {
	a.con.Println()
	a.con.Title(fmt.Sprintf("--- HR MANAGEMENT (database: %s | role: %s) ---", a.store.Name(), sess.Role.Title()))
	for i, e := range entries {
		a.con.Printf("%d - %s\n", i+1, e.Label)
	}
}

// dispatch runs one command and reports its failure. It returns true when
// input has ended or ctx is done and the session should close.
func (a *App) dispatch(ctx context.Context, sess auth.Session, entry boundEntry) (stop bool) {
	log := a.log.With().Str("session", sess.ID.String()).Str("command", entry.Label).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("command panicked")
			a.con.Error("Error: %v", r)
			stop = false
		}
	}()

	err := entry.run(ctx, sess)
	var inputErr *commands.InputError
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), ctx.Err() != nil:
		return true
	case errors.As(err, &inputErr):
		a.con.Warn("%s", inputErr.Message)
		log.Debug().Str("reason", inputErr.Message).Msg("input rejected")
	default:
		a.con.Error("Error: %v", err)
		log.Error().Err(err).Msg("command failed")
	}
	return false
}

func parseChoice(line string, n int) (int, bool) {
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice, true
}
