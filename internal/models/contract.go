package models

import "time"

// Contract binds an employee to a start date, an optional end date and a salary.
// A nil EndDate means the contract is open-ended.
type Contract struct {
	ID         int64
	EmployeeID int64
	StartDate  time.Time
	EndDate    *time.Time
	Salary     Amount
}

// Amendment revises the job title and salary of a contract from a given date.
// Ordinal is assigned by the store, one past the contract's current maximum.
type Amendment struct {
	ID          int64
	ContractID  int64
	Ordinal     int
	EffectiveOn time.Time
	JobTitle    string
	Salary      Amount
}
