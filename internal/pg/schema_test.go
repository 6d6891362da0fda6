package pg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtrack/internal/schema"
)

func TestGenerateDDL(t *testing.T) {
	ddl := GenerateDDL(schema.Default())

	tables := ddl["000_schema_and_tables"]
	require.NotEmpty(t, tables)
	assert.Contains(t, tables, `create schema if not exists "labtrack";`)
	assert.Contains(t, tables, `create table if not exists "labtrack"."samples"`)
	assert.Contains(t, tables, `"sampleid" text not null`)
	assert.Contains(t, tables, `"collectiondate" date null`)
	assert.Contains(t, tables, `"ph" double precision null`)
	assert.Contains(t, tables, `"totaldissolvedsolids" bigint null`)

	fks := ddl["100_foreign_keys"]
	require.NotEmpty(t, fks)
	assert.Contains(t, fks, "samples_facilityid_fk")
	assert.Contains(t, fks, `references "labtrack"."facilities"(id) on delete set null`)
}

func TestDependencyOrder(t *testing.T) {
	order := dependencyOrder(schema.Default())
	pos := make(map[string]int, len(order))
	for i, e := range order {
		pos[e.ID] = i
	}
	require.Len(t, pos, len(schema.Catalog()))

	// цели FK раньше ссылающихся
	assert.Less(t, pos["facilities"], pos["samplePoints"])
	assert.Less(t, pos["accounts"], pos["contacts"])
	assert.Less(t, pos["samples"], pos["waterAnalyses"])
	assert.Less(t, pos["contacts"], pos["samples"])
}

func TestSafeTable(t *testing.T) {
	assert.Equal(t, "samples", safeTable("samples"))
	assert.Equal(t, "e_order", safeTable("Order"))
}

func TestUpsertSQLShape(t *testing.T) {
	// без базы проверяем только, что все поля сущности попали в колонки
	e, err := schema.Default().Lookup("contacts")
	require.NoError(t, err)
	ddl := GenerateDDL(schema.Default())
	for _, f := range e.Fields {
		assert.Contains(t, ddl["000_schema_and_tables"], sqlIdent(strings.ToLower(f.Name)))
	}
}
