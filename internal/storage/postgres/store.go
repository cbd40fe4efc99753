package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// Store provides Postgres-backed persistence for the HR tables.
type Store struct {
	pool     *pgxpool.Pool
	database string
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool, database: cfg.ConnConfig.Database}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Name returns the database name from the connection string.
func (s *Store) Name() string {
	return s.database
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id BIGSERIAL PRIMARY KEY,
			surname TEXT NOT NULL,
			given_name TEXT NOT NULL,
			job_title TEXT NOT NULL,
			removed BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS contracts (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id),
			start_date DATE NOT NULL,
			end_date DATE,
			monthly_salary NUMERIC(12,2) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS amendments (
			id BIGSERIAL PRIMARY KEY,
			contract_id BIGINT NOT NULL REFERENCES contracts(id),
			ordinal INTEGER NOT NULL,
			effective_on DATE NOT NULL,
			job_title TEXT NOT NULL,
			salary NUMERIC(12,2) NOT NULL,
			UNIQUE (contract_id, ordinal)
		);`,
		`CREATE INDEX IF NOT EXISTS employees_active_idx ON employees (id) WHERE NOT removed;`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
		INSERT INTO accounts (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, role, created_at;
		`
	row := s.pool.QueryRow(ctx, query, account.Username, account.PasswordHash, account.Role.String())
	created, err := scanAccount(row)
	if err != nil {
		return models.Account{}, translate(err)
	}
	return created, nil
}

// FindAccount fetches an account by username.
func (s *Store) FindAccount(ctx context.Context, username string) (models.Account, error) {
	const query = `
	SELECT id, username, password_hash, role, created_at
	FROM accounts
	WHERE username = $1;
	`
	return scanAccount(s.pool.QueryRow(ctx, query, username))
}

// CreateEmployee inserts an active employee.
func (s *Store) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	const query = `
		INSERT INTO employees (surname, given_name, job_title, removed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, surname, given_name, job_title, removed;
		`
	row := s.pool.QueryRow(ctx, query, employee.Surname, employee.GivenName, employee.JobTitle)
	created, err := scanEmployee(row)
	if err != nil {
		return models.Employee{}, translate(err)
	}
	return created, nil
}

// FindEmployee fetches an employee by id, removed or not.
func (s *Store) FindEmployee(ctx context.Context, id int64) (models.Employee, error) {
	const query = `
	SELECT id, surname, given_name, job_title, removed
	FROM employees
	WHERE id = $1;
	`
	return scanEmployee(s.pool.QueryRow(ctx, query, id))
}

// ListEmployees returns employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context, filter storage.EmployeeFilter) ([]models.Employee, error) {
	const query = `
	SELECT id, surname, given_name, job_title, removed
	FROM employees
	WHERE $1 OR NOT removed
	ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query, filter.IncludeRemoved)
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
	tag, err := s.pool.Exec(ctx, `UPDATE employees SET removed = TRUE WHERE id = $1 AND NOT removed;`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CreateContract inserts a contract for an existing employee.
func (s *Store) CreateContract(ctx context.Context, contract models.Contract) (models.Contract, error) {
	const query = `
		INSERT INTO contracts (employee_id, start_date, end_date, monthly_salary)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
		`
	var endDate *time.Time
	if contract.EndDate != nil {
		d := storage.DateOnly(*contract.EndDate)
		endDate = &d
	}
	err := s.pool.QueryRow(ctx, query,
		contract.EmployeeID,
		storage.DateOnly(contract.StartDate),
		endDate,
		contract.Salary.String(),
	).Scan(&contract.ID)
	if err != nil {
		return models.Contract{}, translate(err)
	}
	return contract, nil
}

// CreateAmendment locks the contract row, numbers the amendment and inserts it in one transaction.
func (s *Store) CreateAmendment(ctx context.Context, amendment models.Amendment) (models.Amendment, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Amendment{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM contracts WHERE id = $1 FOR UPDATE;`, amendment.ContractID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Amendment{}, storage.ErrMissingReference
		}
		return models.Amendment{}, err
	}

	const insert = `
		INSERT INTO amendments (contract_id, ordinal, effective_on, job_title, salary)
		SELECT $1::bigint, COALESCE(MAX(ordinal), 0) + 1, $2::date, $3::text, $4::numeric
		FROM amendments
		WHERE contract_id = $1::bigint
		RETURNING id, ordinal;
		`
	err = tx.QueryRow(ctx, insert,
		amendment.ContractID,
		storage.DateOnly(amendment.EffectiveOn),
		amendment.JobTitle,
		amendment.Salary.String(),
	).Scan(&amendment.ID, &amendment.Ordinal)
	if err != nil {
		return models.Amendment{}, translate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Amendment{}, fmt.Errorf("commit amendment: %w", err)
	}
	return amendment, nil
}

// ListAmendments returns the amendments of a contract by ordinal.
func (s *Store) ListAmendments(ctx context.Context, contractID int64) ([]models.Amendment, error) {
	const query = `
	SELECT id, contract_id, ordinal, effective_on, job_title, salary::text
	FROM amendments
	WHERE contract_id = $1
	ORDER BY ordinal;
	`
	rows, err := s.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Amendment
	for rows.Next() {
		var a models.Amendment
		var salary string
		if err := rows.Scan(&a.ID, &a.ContractID, &a.Ordinal, &a.EffectiveOn, &a.JobTitle, &salary); err != nil {
			return nil, err
		}
		a.Salary = models.Amount(salary)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	var role string
	if err := row.Scan(&account.ID, &account.Username, &account.PasswordHash, &role, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", account.Username, err)
	}
	account.Role = parsed
	return account, nil
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var employee models.Employee
	if err := row.Scan(&employee.ID, &employee.Surname, &employee.GivenName, &employee.JobTitle, &employee.Removed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, storage.ErrNotFound
		}
		return models.Employee{}, err
	}
	return employee, nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrMissingReference, pgErr.ConstraintName)
		case codeUniqueViolation:
			return storage.ErrAlreadyExists
		}
	}
	return err
}
