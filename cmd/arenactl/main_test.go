package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codr1/Arena/internal/api/auth"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCodesAddAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	if _, err := runCLI(t, "", "codes", "add", "SUMMER24", "WINTER24", "--db", dbPath); err != nil {
		t.Fatalf("codes add: %v", err)
	}
	out, err := runCLI(t, "", "codes", "list", "--db", dbPath)
	if err != nil {
		t.Fatalf("codes list: %v", err)
	}
	if !strings.Contains(out, "SUMMER24") || !strings.Contains(out, "WINTER24") {
		t.Fatalf("expected both codes listed, got %s", out)
	}

	if _, err := runCLI(t, "", "codes", "add", "SUMMER24", "--db", dbPath); err == nil {
		t.Fatal("expected duplicate code to fail")
	}
	if _, err := runCLI(t, "", "codes", "delete", "NOPE", "--db", dbPath); err == nil {
		t.Fatal("expected unknown code delete to fail")
	}
}

func TestRegistrationCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	out, err := runCLI(t, "", "registration", "status", "--db", dbPath)
	if err != nil || !strings.Contains(out, "registration closed") {
		t.Fatalf("expected closed by default, got %q (%v)", out, err)
	}
	if _, err := runCLI(t, "", "registration", "open", "--db", dbPath); err != nil {
		t.Fatalf("open: %v", err)
	}
	out, err = runCLI(t, "", "registration", "status", "--db", dbPath)
	if err != nil || !strings.Contains(out, "registration open") {
		t.Fatalf("expected open, got %q (%v)", out, err)
	}
}

func TestHashPassword(t *testing.T) {
	out, err := runCLI(t, "s3cret-pass\n", "hash-password")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	if !auth.VerifyPassword(strings.TrimSpace(out), "s3cret-pass") {
		t.Fatalf("printed hash does not verify: %q", out)
	}

	if _, err := runCLI(t, "", "hash-password"); err == nil {
		t.Fatal("expected empty password to fail")
	}
}

func TestMigrateVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	if _, err := runCLI(t, "", "migrate", "up", "--db", dbPath); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	out, err := runCLI(t, "", "migrate", "version", "--db", dbPath)
	if err != nil {
		t.Fatalf("migrate version: %v", err)
	}
	if !strings.Contains(out, "Dirty: false") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestDatabasePathFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(cfgPath, []byte("database:\n  driver: sqlite\n  filename: /srv/arena/arena.db\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	flags := &globalFlags{configPath: cfgPath}
	path, err := flags.databasePath()
	if err != nil {
		t.Fatalf("database path: %v", err)
	}
	if path != "/srv/arena/arena.db" {
		t.Fatalf("expected config filename, got %q", path)
	}

	flags.dbPath = "override.db"
	if path, _ := flags.databasePath(); path != "override.db" {
		t.Fatalf("expected --db to win, got %q", path)
	}
}
