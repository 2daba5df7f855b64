package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection shared by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. Tests are
// skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, postgresql.EnsureSchema(context.Background(), db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from every table.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"advanced_salary_recoveries",
		"salary_adjustments",
		"advanced_salaries",
		"punch_requests",
		"payroll_records",
		"payroll_settings",
		"attendances",
		"employee_schedules",
		"employees",
		"work_schedules",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

// createTestEmployee inserts an active monthly employee and returns its ID.
func (t *TestDatabaseSetup) createTestEmployee(tb testing.TB, ctx context.Context, companyID, workScheduleID string) string {
	tb.Helper()

	var wsID interface{}
	if workScheduleID != "" {
		wsID = workScheduleID
	}

	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO employees (company_id, work_schedule_id, employee_code, full_name, payroll_type, gross_salary)
		VALUES ($1, $2, $3, $4, 'monthly', 30000)
		RETURNING id
	`, companyID, wsID, "EMP-"+uuid.NewString()[:8], "Test Employee").Scan(&id)
	require.NoError(tb, err)
	return id
}
