package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"labtrack/internal/schema"
)

// Интеграционный тест с настоящим Postgres в контейнере.
// Гоняется только по явному запросу: LABTRACK_PG_TEST=1 go test ./internal/pg
func TestMirrorAgainstPostgres(t *testing.T) {
	if os.Getenv("LABTRACK_PG_TEST") == "" {
		t.Skip("set LABTRACK_PG_TEST=1 to run the Postgres integration test")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("labtrack"),
		tcpostgres.WithUsername("labtrack"),
		tcpostgres.WithPassword("labtrack"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(dsn)
	require.NoError(t, err)
	defer db.Close()

	reg := schema.Default()
	require.NoError(t, ApplyDDL(db, GenerateDDL(reg), nil))
	// повторное применение idempotent
	require.NoError(t, ApplyDDL(db, GenerateDDL(reg), nil))

	data := map[string][]schema.Record{
		"accounts":   {{"id": "acc1", "name": "Petrochem Inc."}},
		"facilities": {{"id": "fac1", "name": "North Field"}},
		"samplePoints": {{
			"id": "sp1", "name": "Wellhead 1", "facilityId": "fac1",
		}},
		"samples": {{
			"id": "s1", "sampleId": "S-001",
			"facilityId": "fac1", "samplePointId": "sp1", "ownerId": "acc1",
			"collectionDate": "2026-08-01",
		}},
	}
	snap := func(entityID string) []schema.Record { return data[entityID] }

	require.NoError(t, MirrorAll(ctx, db, reg, snap))

	var name string
	require.NoError(t, db.QueryRowContext(ctx,
		`select "name" from "labtrack"."accounts" where id = $1`, "acc1").Scan(&name))
	assert.Equal(t, "Petrochem Inc.", name)

	// апсерт: повторное зеркалирование обновляет, а не падает
	data["accounts"][0]["name"] = "Petrochem International"
	require.NoError(t, MirrorAll(ctx, db, reg, snap))
	require.NoError(t, db.QueryRowContext(ctx,
		`select "name" from "labtrack"."accounts" where id = $1`, "acc1").Scan(&name))
	assert.Equal(t, "Petrochem International", name)

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`select count(*) from "labtrack"."samples"`).Scan(&n))
	assert.Equal(t, 1, n)
}
