// Package sqlitetest opens migrated in-memory databases for tests.
package sqlitetest

import (
	"context"
	"strings"
	"testing"

	migrations "github.com/garnizeh/carematch/db"
	dbpkg "github.com/garnizeh/carematch/internal/db"
	"github.com/garnizeh/carematch/internal/repository/sqlite"
)

// Open returns a fresh in-memory database named after the test, with every
// migration applied, and a repository on top of it. Both are closed on cleanup.
func Open(t testing.TB) (*dbpkg.DB, *sqlite.SQLiteRepo) {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := dbpkg.New(ctx, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d, sqlite.New(d, nil)
}
