package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/storage"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ storage.Store = (*Store)(nil)

// Store keeps the HR tables in a single SQLite file. It is meant for local
// use and tests; one connection is held open so writes are serialized.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database file at path and runs migrations.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_txlock", "immediate")
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Name returns the database file name.
func (s *Store) Name() string {
	return strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			surname TEXT NOT NULL,
			given_name TEXT NOT NULL,
			job_title TEXT NOT NULL,
			removed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS contracts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_id INTEGER NOT NULL REFERENCES employees(id),
			start_date TEXT NOT NULL,
			end_date TEXT,
			monthly_salary TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS amendments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contract_id INTEGER NOT NULL REFERENCES contracts(id),
			ordinal INTEGER NOT NULL,
			effective_on TEXT NOT NULL,
			job_title TEXT NOT NULL,
			salary TEXT NOT NULL,
			UNIQUE (contract_id, ordinal)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, role) VALUES (?, ?, ?);`,
		account.Username, account.PasswordHash, account.Role.String())
	if err != nil {
		return models.Account{}, translate(err)
	}
	if account.ID, err = res.LastInsertId(); err != nil {
		return models.Account{}, err
	}
	return s.FindAccount(ctx, account.Username)
}

// FindAccount fetches an account by username.
func (s *Store) FindAccount(ctx context.Context, username string) (models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM accounts WHERE username = ?;`, username)

	var account models.Account
	var role, createdAt string
	if err := row.Scan(&account.ID, &account.Username, &account.PasswordHash, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", account.Username, err)
	}
	account.Role = parsed
	if account.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.Account{}, fmt.Errorf("account %s: created_at: %w", account.Username, err)
	}
	return account, nil
}

// CreateEmployee inserts an active employee.
func (s *Store) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (surname, given_name, job_title, removed) VALUES (?, ?, ?, 0);`,
		employee.Surname, employee.GivenName, employee.JobTitle)
	if err != nil {
		return models.Employee{}, translate(err)
	}
	if employee.ID, err = res.LastInsertId(); err != nil {
		return models.Employee{}, err
	}
	employee.Removed = false
	return employee, nil
}

// FindEmployee fetches an employee by id, removed or not.
func (s *Store) FindEmployee(ctx context.Context, id int64) (models.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, surname, given_name, job_title, removed FROM employees WHERE id = ?;`, id)
	employee, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, storage.ErrNotFound
	}
	return employee, err
}

// ListEmployees returns employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context, filter storage.EmployeeFilter) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, surname, given_name, job_title, removed FROM employees WHERE ? OR removed = 0 ORDER BY id;`,
		filter.IncludeRemoved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, employee)
	}
	return out, rows.Err()
}

// SoftDeleteEmployee flags an active employee as removed.
func (s *Store) SoftDeleteEmployee(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE employees SET removed = 1 WHERE id = ? AND removed = 0;`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateContract inserts a contract for an existing employee.
func (s *Store) CreateContract(ctx context.Context, contract models.Contract) (models.Contract, error) {
	var endDate any
	if contract.EndDate != nil {
		endDate = contract.EndDate.Format(storage.DateLayout)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contracts (employee_id, start_date, end_date, monthly_salary) VALUES (?, ?, ?, ?);`,
		contract.EmployeeID, contract.StartDate.Format(storage.DateLayout), endDate, contract.Salary.String())
	if err != nil {
		return models.Contract{}, translate(err)
	}
	if contract.ID, err = res.LastInsertId(); err != nil {
		return models.Contract{}, err
	}
	return contract, nil
}

// CreateAmendment numbers and inserts an amendment inside one immediate transaction.
func (s *Store) CreateAmendment(ctx context.Context, amendment models.Amendment) (models.Amendment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Amendment{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM contracts WHERE id = ?;`, amendment.ContractID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Amendment{}, storage.ErrMissingReference
		}
		return models.Amendment{}, err
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM amendments WHERE contract_id = ?;`,
		amendment.ContractID).Scan(&amendment.Ordinal)
	if err != nil {
		return models.Amendment{}, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO amendments (contract_id, ordinal, effective_on, job_title, salary) VALUES (?, ?, ?, ?, ?);`,
		amendment.ContractID, amendment.Ordinal, amendment.EffectiveOn.Format(storage.DateLayout),
		amendment.JobTitle, amendment.Salary.String())
	if err != nil {
		return models.Amendment{}, translate(err)
	}
	if amendment.ID, err = res.LastInsertId(); err != nil {
		return models.Amendment{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Amendment{}, fmt.Errorf("commit amendment: %w", err)
	}
	return amendment, nil
}

// ListAmendments returns the amendments of a contract by ordinal.
func (s *Store) ListAmendments(ctx context.Context, contractID int64) ([]models.Amendment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, contract_id, ordinal, effective_on, job_title, salary FROM amendments WHERE contract_id = ? ORDER BY ordinal;`,
		contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Amendment
	for rows.Next() {
		var a models.Amendment
		var effectiveOn, salary string
		if err := rows.Scan(&a.ID, &a.ContractID, &a.Ordinal, &effectiveOn, &a.JobTitle, &salary); err != nil {
			return nil, err
		}
		if a.EffectiveOn, err = time.Parse(storage.DateLayout, effectiveOn); err != nil {
			return nil, fmt.Errorf("amendment %d: %w", a.ID, err)
		}
		a.Salary = models.Amount(salary)
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (models.Employee, error) {
	var employee models.Employee
	err := row.Scan(&employee.ID, &employee.Surname, &employee.GivenName, &employee.JobTitle, &employee.Removed)
	return employee, err
}

func translate(err error) error {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return err
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return storage.ErrMissingReference
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return storage.ErrAlreadyExists
	}
	// without extended result codes only the primary code is set
	if sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := sqlErr.Error()
		switch {
		case strings.Contains(msg, "FOREIGN KEY"):
			return storage.ErrMissingReference
		case strings.Contains(msg, "UNIQUE"):
			return storage.ErrAlreadyExists
		}
	}
	return err
}
