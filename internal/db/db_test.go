package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestWithSQLiteParams(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "arena.db", want: "arena.db?_fk=1&_busy_timeout=5000"},
		{dsn: "arena.db?cache=shared", want: "arena.db?cache=shared&_fk=1&_busy_timeout=5000"},
		{dsn: "arena.db?_fk=0", want: "arena.db?_fk=0&_busy_timeout=5000"},
	}

	for _, tt := range tests {
		if got := withSQLiteParams(tt.dsn); got != tt.want {
			t.Fatalf("withSQLiteParams(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestRunInTxRollsBack(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.RunInTx(ctx, func(tx *DB) error {
		if _, err := tx.Queries.CreateTournamentCode(ctx, "ROLLBACK"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	codes, err := database.Queries.ListTournamentCodes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected rollback to discard the code, got %d", len(codes))
	}
}

func TestRunInTxCommits(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.RunInTx(ctx, func(tx *DB) error {
		_, err := tx.Queries.CreateTournamentCode(ctx, "COMMIT")
		return err
	}); err != nil {
		t.Fatalf("run in tx: %v", err)
	}

	if _, err := database.Queries.GetTournamentCode(ctx, "COMMIT"); err != nil {
		t.Fatalf("expected committed code: %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := newTestDB(t)

	if _, err := database.Exec(`INSERT INTO teams (sport_id, name) VALUES (9999, 'Ghosts')`); err == nil {
		t.Fatal("expected foreign key violation")
	}
}
