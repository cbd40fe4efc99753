package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/gestionrh/internal/models"
	"github.com/hongminglow/gestionrh/internal/storage"
)

// TestStoreIntegration exercises the store against a live Postgres database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_PG_INTEGRATION") != "true" {
		t.Skip("set RUN_PG_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	username := fmt.Sprintf("pgtest_%d", time.Now().UnixNano())
	if _, err := store.CreateAccount(ctx, models.Account{Username: username, PasswordHash: "x", Role: models.RoleStaff}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if _, err := store.CreateAccount(ctx, models.Account{Username: username, PasswordHash: "x", Role: models.RoleStaff}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate account: want ErrAlreadyExists, got %v", err)
	}

	employee, err := store.CreateEmployee(ctx, models.Employee{Surname: "INTEGRATION", GivenName: username, JobTitle: "tester"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	contract, err := store.CreateContract(ctx, models.Contract{EmployeeID: employee.ID, StartDate: start, Salary: "2100.50"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := store.CreateContract(ctx, models.Contract{EmployeeID: -1, StartDate: start, Salary: "1.00"}); !errors.Is(err, storage.ErrMissingReference) {
		t.Fatalf("contract for missing employee: want ErrMissingReference, got %v", err)
	}

	for want := 1; want <= 2; want++ {
		a, err := store.CreateAmendment(ctx, models.Amendment{ContractID: contract.ID, EffectiveOn: start, JobTitle: "lead", Salary: "2500"})
		if err != nil {
			t.Fatalf("create amendment: %v", err)
		}
		if a.Ordinal != want {
			t.Fatalf("ordinal: want %d got %d", want, a.Ordinal)
		}
	}

	// concurrent writers still get consecutive ordinals
	const writers = 6
	ordinals := make(chan int, writers)
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := store.CreateAmendment(ctx, models.Amendment{ContractID: contract.ID, EffectiveOn: start, JobTitle: "lead", Salary: "2600"})
			if err != nil {
				errs <- err
				return
			}
			ordinals <- a.Ordinal
		}()
	}
	wg.Wait()
	close(ordinals)
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent amendment: %v", err)
	}
	var got []int
	for o := range ordinals {
		got = append(got, o)
	}
	sort.Ints(got)
	for i, o := range got {
		if o != i+3 {
			t.Fatalf("concurrent ordinals: got %v", got)
		}
	}

	if n, err := store.SoftDeleteEmployee(ctx, employee.ID); err != nil || n != 1 {
		t.Fatalf("soft delete: n=%d err=%v", n, err)
	}
	if n, err := store.SoftDeleteEmployee(ctx, employee.ID); err != nil || n != 0 {
		t.Fatalf("second soft delete: n=%d err=%v", n, err)
	}
	found, err := store.FindEmployee(ctx, employee.ID)
	if err != nil || !found.Removed {
		t.Fatalf("find removed employee: %+v %v", found, err)
	}
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
