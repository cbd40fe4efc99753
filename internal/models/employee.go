package models

// Employee is a row of the employees table. Removed marks a soft delete.
type Employee struct {
	ID        int64
	Surname   string
	GivenName string
	JobTitle  string
	Removed   bool
}
