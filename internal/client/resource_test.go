package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtrack/internal/schema"
)

func testResource(t *testing.T, h http.HandlerFunc) (*Resource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := New(NewCore(srv.URL, nil, nil), schema.Default())
	ops, err := c.Resource("accounts")
	require.NoError(t, err)
	return ops.(*Resource), srv
}

func TestFetchPageBareArray(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "2", req.URL.Query().Get("page"))
		assert.Equal(t, "10", req.URL.Query().Get("pageSize"))
		assert.Equal(t, "petro", req.URL.Query().Get("search"))
		_ = json.NewEncoder(w).Encode([]schema.Record{
			{"id": "acc1", "name": "Petrochem Inc."},
		})
	})

	res, err := r.FetchPage(context.Background(), schema.PagedQuery{Page: 2, PageSize: 10, Search: "petro"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "acc1", res.Data[0].ID())
}

func TestFetchPageEnvelope(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []schema.Record{{"id": "acc1"}, {"id": "acc2"}},
			"total": 42,
		})
	})

	res, err := r.FetchPage(context.Background(), schema.PagedQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 42, res.Total)
	assert.Len(t, res.Data, 2)
}

func TestFetchPageUnknownShape(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": 3})
	})

	res, err := r.FetchPage(context.Background(), schema.PagedQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Zero(t, res.Total)
}

func TestFetchByIDNotFound(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec, err := r.FetchByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchByIDServerError(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := r.FetchByID(context.Background(), "acc1")
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestCreateSendsWritableSubset(t *testing.T) {
	var got schema.Record
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(schema.Record{"id": "acc9", "name": "New Co"})
	})

	created, err := r.Create(context.Background(), schema.Record{
		"name":      "New Co",
		"createdAt": "2026-01-01", // не в схеме, должен отсечься
	})
	require.NoError(t, err)
	assert.Equal(t, "acc9", created.ID())
	assert.Equal(t, "New Co", got["name"])
	assert.NotContains(t, got, "createdAt")
}

func TestUpdateVerbSplit(t *testing.T) {
	var method, rawQuery string
	h := func(w http.ResponseWriter, req *http.Request) {
		method = req.Method
		rawQuery = req.URL.RawQuery
		_ = json.NewEncoder(w).Encode(schema.Record{"id": "x"})
	}

	// accounts объявлены с PATCH
	r, _ := testResource(t, h)
	ok, err := r.Update(context.Background(), "acc1", schema.Record{"name": "Renamed"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "id=acc1", rawQuery)

	// samples — полные PUT
	srv := httptest.NewServer(http.HandlerFunc(h))
	t.Cleanup(srv.Close)
	c := New(NewCore(srv.URL, nil, nil), schema.Default())
	ops, err := c.Resource("samples")
	require.NoError(t, err)
	ok, err = ops.Update(context.Background(), "s1", schema.Record{"notes": "n"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "id=s1", rawQuery)
}

func TestUpdateNotFound(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ok, err := r.Update(context.Background(), "ghost", schema.Record{"name": "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSentinels(t *testing.T) {
	r, _ := testResource(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodDelete, req.Method)
		if req.URL.Query().Get("id") == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ok, err := r.Delete(context.Background(), "acc1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResourceUnknownEntity(t *testing.T) {
	c := New(NewCore("http://localhost", nil, nil), schema.Default())
	_, err := c.Resource("widgets")
	require.ErrorIs(t, err, schema.ErrUnknownEntity)
}
