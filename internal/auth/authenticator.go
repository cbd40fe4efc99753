package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/storage"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnavailable wraps faults reaching the account store.
var ErrUnavailable = errors.New("account store unavailable")

// Authenticator checks credentials against stored accounts.
type Authenticator struct {
	accounts storage.AccountStore
}

// NewAuthenticator constructs the authenticator.
func NewAuthenticator(accounts storage.AccountStore) *Authenticator {
	return &Authenticator{accounts: accounts}
}

// Login verifies username and password and opens a session. There is no retry.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	account, err := a.accounts.FindAccount(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !CheckPassword(account.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return newSession(account), nil
}

// Resume reopens a session for a remembered username, provided the account
// still exists with the same role.
func (a *Authenticator) Resume(ctx context.Context, username string, role models.Role) (Session, error) {
	account, err := a.accounts.FindAccount(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrTicketInvalid
		}
		return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if account.Role != role {
		return Session{}, ErrTicketInvalid
	}
	return newSession(account), nil
}
