package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsClosed(t *testing.T) {
	r, err := NewRegistry(Catalog())
	require.NoError(t, err)

	// каждый FK ведёт на зарегистрированную сущность
	for _, e := range r.Entities() {
		for _, f := range e.Fields {
			if f.Kind != KindForeignKey {
				continue
			}
			tgt, err := r.Lookup(f.Related)
			require.NoError(t, err, "%s.%s", e.ID, f.Name)
			assert.NotEmpty(t, tgt.DisplayField)
		}
	}
}

func TestLookupUnknownEntity(t *testing.T) {
	r := Default()
	_, err := r.Lookup("widgets")
	require.ErrorIs(t, err, ErrUnknownEntity)
}

func TestRegistryRejectsDanglingRef(t *testing.T) {
	_, err := NewRegistry([]*Entity{
		{
			ID: "orders", Path: "Orders", DisplayField: "id", UpdateVerb: VerbPut,
			Fields: []Field{fk("customerId", "Customer", "customers")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customers")
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	e := &Entity{ID: "accounts", Path: "Accounts", DisplayField: "id", UpdateVerb: VerbPatch}
	_, err := NewRegistry([]*Entity{e, e})
	require.Error(t, err)
}

func TestRegistryRejectsUnknownListField(t *testing.T) {
	_, err := NewRegistry([]*Entity{
		{
			ID: "tanks", Path: "Tanks", DisplayField: "id", UpdateVerb: VerbPut,
			Fields:     []Field{text("name", "Name")},
			ListFields: []string{"name", "volume"},
		},
	})
	require.Error(t, err)
}

func TestRequiredFields(t *testing.T) {
	r := Default()
	s, err := r.Lookup("samples")
	require.NoError(t, err)
	assert.Equal(t, []string{"sampleId", "facilityId", "samplePointId", "ownerId"}, s.RequiredFields())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, PagedResult{Total: 5}.TotalPages(10))
	assert.Equal(t, 2, PagedResult{Total: 11}.TotalPages(10))
	assert.Equal(t, 1, PagedResult{Total: 0}.TotalPages(10))
}
