package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hongminglow/gestionrh/internal/models"
)

// ErrTicketInvalid means a remembered session can no longer be used.
var ErrTicketInvalid = errors.New("session ticket invalid or expired")

// TicketManager signs and verifies remembered-session tickets.
type TicketManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type ticketClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Ticket is what a verified ticket vouches for.
type Ticket struct {
	Username  string
	Role      models.Role
	ExpiresAt time.Time
}

// NewTicketManager creates a manager with the provided secret, issuer, and lifetime.
func NewTicketManager(secret, issuer string, ttl time.Duration) *TicketManager {
	return &TicketManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a ticket for the session.
func (t *TicketManager) Issue(s Session) (string, error) {
	now := t.now()
	claims := ticketClaims{
		Role: s.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   s.Username,
			ID:        s.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, issuer and expiry.
func (t *TicketManager) Verify(raw string) (Ticket, error) {
	var claims ticketClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithIssuer(t.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrTicketInvalid, err)
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return Ticket{}, ErrTicketInvalid
	}
	return Ticket{Username: claims.Subject, Role: role, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// SaveTicket writes the ticket readable by the owner only.
func SaveTicket(path, ticket string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(ticket+"\n"), 0o600)
}

// LoadTicket reads a saved ticket. A missing file is reported as os.ErrNotExist.
func LoadTicket(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// RemoveTicket deletes a saved ticket; a missing file is not an error.
func RemoveTicket(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
