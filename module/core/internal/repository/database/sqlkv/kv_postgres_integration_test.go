//go:build integration

package sqlkv

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("privatekit"),
		tcpostgres.WithUsername("privatekit"),
		tcpostgres.WithPassword("privatekit"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("skip: cannot start postgres: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewKVRepo(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	trail := `[{"latitude":37.422,"longitude":-122.084,"time":1715003456000}]`
	if err := repo.Set(ctx, "LOCATION_DATA", trail); err != nil {
		t.Fatal(err)
	}
	if err := repo.Set(ctx, "LOCATION_DATA", "[]"); err != nil {
		t.Fatal(err)
	}

	value, found, err := repo.Get(ctx, "LOCATION_DATA")
	if err != nil {
		t.Fatal(err)
	}
	if !found || value != "[]" {
		t.Fatalf("got %q found=%v, want overwritten value", value, found)
	}

	if err := repo.Delete(ctx, "LOCATION_DATA"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := repo.Get(ctx, "LOCATION_DATA"); found {
		t.Fatal("expected key to be deleted")
	}
}
