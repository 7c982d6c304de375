package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	dbpkg "github.com/garnizeh/carematch/internal/db"
)

func openMemory(t *testing.T) *dbpkg.DB {
	t.Helper()
	d, err := dbpkg.New(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestNew_Close_GetConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	d, err := dbpkg.New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if d.GetConn() == nil {
		t.Fatalf("expected non-nil sql.DB from GetConn")
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestExec_QueryRow_QueryRows(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)

	if _, err := d.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	for _, name := range []string{"foo", "bar"} {
		if _, err := d.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, name); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	var name string
	if err := d.QueryRow(ctx, `SELECT name FROM items WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("QueryRow scan: %v", err)
	}
	if name != "foo" {
		t.Fatalf("expected name 'foo' got %q", name)
	}

	rows, err := d.QueryRows(ctx, `SELECT name FROM items ORDER BY id`)
	if err != nil {
		t.Fatalf("QueryRows: %v", err)
	}
	defer rows.Close()
	var got []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, n)
	}
	if len(got) != 2 || got[1] != "bar" {
		t.Fatalf("unexpected rows: %v", got)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)

	stmts := []string{
		`CREATE TABLE parents (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parents(id) ON DELETE CASCADE)`,
		`INSERT INTO parents (id) VALUES (1)`,
		`INSERT INTO children (id, parent_id) VALUES (10, 1)`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(ctx, s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}

	if _, err := d.Exec(ctx, `INSERT INTO children (id, parent_id) VALUES (11, 99)`); err == nil {
		t.Fatalf("expected foreign key violation for missing parent")
	}

	if _, err := d.Exec(ctx, `DELETE FROM parents WHERE id = 1`); err != nil {
		t.Fatalf("delete parent: %v", err)
	}
	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM children`).Scan(&count); err != nil {
		t.Fatalf("count children: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cascade delete, %d children left", count)
	}
}

func TestRunInTx_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)

	if _, err := d.Exec(ctx, `CREATE TABLE items (name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	err := d.RunInTx(ctx, func(ctx context.Context) error {
		_, err := d.Exec(ctx, `INSERT INTO items (name) VALUES ('kept')`)
		return err
	})
	if err != nil {
		t.Fatalf("commit path: %v", err)
	}

	boom := errors.New("boom")
	err = d.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := d.Exec(ctx, `INSERT INTO items (name) VALUES ('dropped')`); err != nil {
			return err
		}
		// nested call joins the outer transaction
		return d.RunInTx(ctx, func(ctx context.Context) error { return boom })
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the committed row, got %d", count)
	}
}

func TestNew_BadPath(t *testing.T) {
	_, err := dbpkg.New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "app.db"))
	if err == nil {
		t.Fatalf("expected error for unreachable database path, got nil")
	}
}
