package dto

import (
	"time"

	"github.com/hongminglow/gestionrh/internal/models"
)

// NewEmployee carries the add-employee prompts. Fields are free text.
type NewEmployee struct {
	Surname   string
	GivenName string
	JobTitle  string
}

// NewContract carries the add-contract prompts once parsed.
type NewContract struct {
	EmployeeID int64         `validate:"gt=0"`
	StartDate  time.Time     `validate:"required"`
	EndDate    *time.Time    `validate:"omitempty"`
	Salary     models.Amount `validate:"required"`
}

// NewAmendment carries the add-amendment prompts once parsed.
type NewAmendment struct {
	ContractID  int64         `validate:"gt=0"`
	EffectiveOn time.Time     `validate:"required"`
	JobTitle    string
	Salary      models.Amount `validate:"required"`
}

// RemoveEmployee carries the soft-delete prompt.
type RemoveEmployee struct {
	EmployeeID int64 `validate:"gt=0"`
}

// NewAccount carries the account create flags and the confirmed password.
type NewAccount struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"required,oneof=admin manager staff"`
}
