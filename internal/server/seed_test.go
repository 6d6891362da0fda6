package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtrack/internal/schema"
)

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.yaml"), []byte(`
entity: accounts
records:
  - id: acc1
    name: Petrochem Inc.
  - id: acc2
    name: Gulf Solutions
`), 0o644))
	// имя сущности из имени файла, если entity не указан
	require.NoError(t, os.WriteFile(filepath.Join(dir, "facilities.yml"), []byte(`
records:
  - id: fac1
    name: North Field
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	reg := schema.Default()
	store := NewStore(reg)
	n, err := LoadSeed(store, reg, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, store.Count("accounts"))
	assert.Equal(t, 1, store.Count("facilities"))

	rec, ok := store.Get("accounts", "acc1")
	require.True(t, ok)
	assert.Equal(t, "Petrochem Inc.", rec["name"])
}

func TestLoadSeedUnknownEntity(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.yaml"), []byte(`
records:
  - id: w1
`), 0o644))

	reg := schema.Default()
	_, err := LoadSeed(NewStore(reg), reg, dir)
	require.ErrorIs(t, err, schema.ErrUnknownEntity)
}
