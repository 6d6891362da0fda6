package ui

import (
	"context"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtrack/internal/client"
	"labtrack/internal/form"
	"labtrack/internal/schema"
	"labtrack/internal/server"
)

func testApp(t *testing.T) (*App, *server.Store) {
	t.Helper()
	reg := schema.Default()
	store := server.NewStore(reg)
	store.Load("accounts", schema.Record{"id": "acc1", "name": "Petrochem Inc."})
	srv := httptest.NewServer(server.NewRouter(store, reg, ""))
	t.Cleanup(srv.Close)

	cli := client.New(client.NewCore(srv.URL, nil, nil), reg)
	app, err := NewApp(reg, cli, nil, nil)
	require.NoError(t, err)
	return app, store
}

// drain прогоняет команду и скармливает её сообщение обратно модели
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(t, app, c)
			}
			return
		}
		var m tea.Model
		m, cmd = app.Update(msg)
		*app = *m.(*App)
	}
}

func TestAppStartsOnSummary(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())
	view := app.View()
	assert.Contains(t, view, "Records by entity")
	assert.Contains(t, view, "Accounts")
}

func TestAppTabOpensFirstEntity(t *testing.T) {
	app, _ := testApp(t)
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(*App)
	drain(t, app, cmd)

	require.Equal(t, 1, app.active)
	view := app.View()
	assert.Contains(t, view, "Petrochem Inc.")
	assert.Contains(t, view, "page 1/1")
}

func TestAppOpenCreateForm(t *testing.T) {
	app, _ := testApp(t)
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(*App)
	drain(t, app, cmd)

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	app = m.(*App)
	require.NotNil(t, app.formV)
	assert.Contains(t, app.View(), "New Accounts")

	// esc закрывает без сохранения
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = m.(*App)
	assert.Nil(t, app.formV)
}

func TestParseValue(t *testing.T) {
	assert.Nil(t, parseValue(schema.KindText, "  "))
	assert.Equal(t, "hello", parseValue(schema.KindText, "hello"))
	assert.Equal(t, 42, parseValue(schema.KindInteger, "42"))
	assert.Equal(t, 7.25, parseValue(schema.KindDecimal, "7.25"))
	// мусор в числовом поле остаётся строкой: сервер его отвергнет
	assert.Equal(t, "4x", parseValue(schema.KindInteger, "4x"))
}

func TestEditText(t *testing.T) {
	assert.Equal(t, "", editText(nil))
	assert.Equal(t, "abc", editText("abc"))
	assert.Equal(t, "7.25", editText(7.25))
	assert.Equal(t, "120", editText(float64(120)))
}

func TestNextPageSize(t *testing.T) {
	assert.Equal(t, 50, nextPageSize(10))
	assert.Equal(t, 100, nextPageSize(50))
	assert.Equal(t, 10, nextPageSize(100))
	assert.Equal(t, 10, nextPageSize(7))
}

func TestFormViewMarksMissing(t *testing.T) {
	app, _ := testApp(t)
	f, err := form.New(app.reg, app.cli, "accounts", nil)
	require.NoError(t, err)
	f.OpenCreate(context.Background())

	v := newFormView(f, app.styles)
	ok, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	assert.Contains(t, v.view(), "required")
}
