package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/storefrontlabs/storefront-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestSchemaMigrationEnforcesInvariants(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"user_id    uuid NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE",
		"CONSTRAINT idx_cart_items_cart_product UNIQUE (cart_id, product_id)",
		"cart_id     uuid NOT NULL UNIQUE REFERENCES carts (id)",
		"name       text NOT NULL UNIQUE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSeedMigrationCoversStatusWhitelist(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_seed_order_statuses.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no seed migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, status := range []string{"'Pending'", "'Processing'", "'Completed'", "'Cancelled'"} {
		if !strings.Contains(content, status) {
			t.Errorf("missing seeded status %s", status)
		}
	}
}
