package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mealbridge/mealbridge-backend/pkg/migrate"
)

func TestOrdersMigrationCoversLifecycleColumns(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE orders",
		"status             text NOT NULL DEFAULT 'Food Preparing'",
		"payment            boolean NOT NULL DEFAULT false",
		"donation_notified  boolean NOT NULL DEFAULT false",
		"CREATE INDEX orders_status_idx ON orders (status)",
		"DROP TABLE orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
