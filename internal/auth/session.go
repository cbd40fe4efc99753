package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/gestionrh/internal/models"
)

// Session is the identity established at login and threaded through the console.
type Session struct {
	ID        uuid.UUID
	AccountID int64
	Username  string
	Role      models.Role
	StartedAt time.Time
}

func newSession(account models.Account) Session {
	return Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		StartedAt: time.Now(),
	}
}
