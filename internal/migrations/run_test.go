package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func getMigrationsPath(t *testing.T) string {
	projectRoot, err := filepath.Abs("../..")
	require.NoError(t, err)

	migrationsPath := filepath.Join(projectRoot, "migrations")
	t.Logf("Migrations path: %s", migrationsPath)
	return migrationsPath
}

func TestRunMigrations(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	migrationsPath := getMigrationsPath(t)

	err := Run(db, migrationsPath)
	require.NoError(t, err)

	for _, table := range []string{
		"users", "subscription_plans", "services", "plan_services",
		"user_subscriptions", "member_documents", "audit_log_settings", "audit_logs",
	} {
		var exists bool
		err = db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)
		`, table).Scan(&exists)
		require.NoError(t, err)
		require.True(t, exists, "Table %q should exist", table)
	}

	var exists bool
	err = db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'users'
			AND indexname = 'users_nfc_number_enabled_idx'
		)
	`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists, "Partial NFC index should exist")

	var plansCount int
	err = db.QueryRow("SELECT COUNT(*) FROM subscription_plans WHERE is_active").Scan(&plansCount)
	require.NoError(t, err)
	require.Equal(t, 2, plansCount, "Should have seeded plans")
}

func TestMigrationIdempotency(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	migrationsPath := getMigrationsPath(t)

	err := Run(db, migrationsPath)
	require.NoError(t, err)

	err = Run(db, migrationsPath)
	require.True(t, err == nil || err.Error() == "no change",
		"Running migrations twice should not fail. Got error: %v", err)

	var plansCount int
	err = db.QueryRow("SELECT COUNT(*) FROM subscription_plans").Scan(&plansCount)
	require.NoError(t, err)
	require.Equal(t, 2, plansCount, "Should still have seeded plans after second run")
}

func TestNfcUniquenessScopedToEnabled(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	err := Run(db, getMigrationsPath(t))
	require.NoError(t, err)

	insert := func(email, username, nfc string, enabled bool) error {
		_, err := db.Exec(`
			INSERT INTO users (email, username, password_hash, is_nfc_enable, nfc_number)
			VALUES ($1, $2, 'x', $3, $4)
		`, email, username, enabled, nfc)
		return err
	}

	require.NoError(t, insert("a@example.com", "usera", "CARD-1", true))
	require.NoError(t, insert("b@example.com", "userb", "CARD-1", false),
		"Disabled NFC users may share a card number")
	require.Error(t, insert("c@example.com", "userc", "CARD-1", true),
		"Enabled NFC users may not share a card number")
}
