package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtrack/internal/auth"
	"labtrack/internal/client"
	"labtrack/internal/form"
	"labtrack/internal/list"
	"labtrack/internal/schema"
)

// Сквозные тесты: настоящий HTTP-клиент против настоящего роутера,
// движки листинга и формы поверх — весь путь от query до хранилища.

func e2eClient(t *testing.T, key string) (*client.Client, *Store) {
	t.Helper()
	reg := schema.Default()
	store := NewStore(reg)
	srv := httptest.NewServer(NewRouter(store, reg, key))
	t.Cleanup(srv.Close)

	var session *auth.Session
	if key != "" {
		s, err := auth.Login(context.Background(), auth.Options{Mode: auth.ModeFunctionKey, FunctionKey: key})
		require.NoError(t, err)
		session = s
	}
	return client.New(client.NewCore(srv.URL, session, nil), reg), store
}

func TestEndToEndCreateRoundTrip(t *testing.T) {
	c, _ := e2eClient(t, "dev-key")
	ctx := context.Background()

	ops, err := c.Resource("accounts")
	require.NoError(t, err)

	created, err := ops.Create(ctx, schema.Record{"name": "Acme"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	got, err := ops.FetchByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got["name"])

	res, err := ops.FetchPage(ctx, schema.PagedQuery{Page: 1, PageSize: 10, Search: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
}

func TestEndToEndFormAndList(t *testing.T) {
	c, store := e2eClient(t, "")
	ctx := context.Background()
	reg := schema.Default()
	store.Load("accounts", schema.Record{"id": "acc1", "name": "Petrochem Inc."})

	refreshed := 0
	f, err := form.New(reg, c, "contacts", func() { refreshed++ })
	require.NoError(t, err)

	f.OpenCreate(ctx)
	f.Set("name", "Walter White")
	require.NoError(t, f.Resolver("accountId").Search(ctx, "petro"))
	opts := f.Resolver("accountId").Options()
	require.Len(t, opts, 1)
	f.Pick("accountId", opts[0])

	ok, err := f.Submit(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, refreshed)

	labels := list.NewLabelCache(reg, c)
	eng, err := list.NewEngine(reg, c, labels, "contacts", nil)
	require.NoError(t, err)
	require.NoError(t, eng.Reload(ctx))
	require.Len(t, eng.Rows(), 1)
	assert.Equal(t, []string{"Walter White", "Petrochem Inc."}, eng.Cells(eng.Rows()[0]))
}

func TestEndToEndDanglingForeignKey(t *testing.T) {
	c, store := e2eClient(t, "")
	ctx := context.Background()
	reg := schema.Default()

	store.Load("accounts", schema.Record{"id": "acc1", "name": "Petrochem Inc."})
	store.Load("contacts", schema.Record{"id": "con1", "name": "Jane Doe", "accountId": "acc1"})
	// аккаунт удалили из-под контакта
	require.True(t, store.Remove("accounts", "acc1"))

	eng, err := list.NewEngine(reg, c, list.NewLabelCache(reg, c), "contacts", nil)
	require.NoError(t, err)
	require.NoError(t, eng.Reload(ctx))
	require.Len(t, eng.Rows(), 1)
	assert.Equal(t, []string{"Jane Doe", list.Placeholder}, eng.Cells(eng.Rows()[0]))
}

func TestEndToEndUpdateMissing(t *testing.T) {
	c, _ := e2eClient(t, "")
	ops, err := c.Resource("facilities")
	require.NoError(t, err)

	ok, err := ops.Update(context.Background(), "missing-id", schema.Record{"name": "X"})
	require.NoError(t, err)
	assert.False(t, ok)
}
