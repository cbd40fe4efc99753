package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/gestionrh/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrMissingReference indicates a foreign key pointing at a row that does not exist.
var ErrMissingReference = errors.New("referenced record does not exist")

// EmployeeFilter narrows ListEmployees. Results are always ordered by id.
type EmployeeFilter struct {
	IncludeRemoved bool
}

// AccountStore captures persistence operations needed by authentication.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindAccount(ctx context.Context, username string) (models.Account, error)
}

// EmployeeStore covers the employees table.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	FindEmployee(ctx context.Context, id int64) (models.Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]models.Employee, error)
	// SoftDeleteEmployee flags an active employee as removed and returns the rows affected.
	SoftDeleteEmployee(ctx context.Context, id int64) (int64, error)
}

// ContractStore covers contracts and their amendments.
type ContractStore interface {
	CreateContract(ctx context.Context, contract models.Contract) (models.Contract, error)
	// CreateAmendment assigns the next ordinal for the contract and inserts the row atomically.
	CreateAmendment(ctx context.Context, amendment models.Amendment) (models.Amendment, error)
	ListAmendments(ctx context.Context, contractID int64) ([]models.Amendment, error)
}

// Store is the full persistence surface used by the console.
type Store interface {
	AccountStore
	EmployeeStore
	ContractStore
	// Name identifies the database in the menu header.
	Name() string
	Ping(ctx context.Context) error
	Close()
}
