package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "not-a-migration.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected filename validation error")
	}
}

func TestValidateDirRejectsMissingDownSection(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "20250901120000_only_up.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "goose Down") {
		t.Fatalf("expected missing Down error, got %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Courier Charges!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_courier_charges.sql") {
		t.Fatalf("unexpected filename %q", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}
