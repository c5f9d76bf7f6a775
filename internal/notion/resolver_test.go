package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDBID = "01234567-89ab-cdef-0123-456789abcdef"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token", nil)
}

func TestResolveContainerPicksFirstDataSource(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/databases/"+testDBID, r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, APIVersion, r.Header.Get("Notion-Version"))

		json.NewEncoder(w).Encode(map[string]any{
			"object": "database",
			"id":     testDBID,
			"title":  []map[string]any{{"plain_text": "Journal"}},
			"data_sources": []map[string]any{
				{"id": "ds-x", "name": "X"},
				{"id": "ds-y", "name": "Y"},
			},
		})
	}))

	// Resolution is deterministic under repetition.
	for i := 0; i < 3; i++ {
		ct, err := client.ResolveContainer(context.Background(), testDBID)
		require.NoError(t, err)
		assert.Equal(t, ModeDataSource, ct.Mode)
		assert.Equal(t, "ds-x", ct.ID, "first listed data source wins")
		assert.Equal(t, "Journal", ct.Title)
	}
}

func TestResolveContainerLegacyFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"object": "database",
			"id":     testDBID,
			"title":  []map[string]any{{"plain_text": "Old "}, {"plain_text": "Journal"}},
			"properties": map[string]any{
				"Name":   map[string]any{"id": "t", "type": "title"},
				"Shadow": map[string]any{"id": "s", "type": "checkbox"},
			},
		})
	}))

	ct, err := client.ResolveContainer(context.Background(), testDBID)
	require.NoError(t, err)
	assert.Equal(t, ModeLegacyDatabase, ct.Mode)
	assert.Equal(t, testDBID, ct.ID)
	assert.Equal(t, "Old Journal", ct.Title)

	// Legacy schema comes from the database object, no second call needed.
	schema, err := client.ContainerSchema(context.Background(), ct)
	require.NoError(t, err)
	assert.Equal(t, Schema{"Name": "title", "Shadow": "checkbox"}, schema)
}

func TestContainerSchemaDataSourceMode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/databases/" + testDBID:
			json.NewEncoder(w).Encode(map[string]any{
				"data_sources": []map[string]any{{"id": "ds-1", "name": "Main"}},
			})
		case "/v1/data_sources/ds-1":
			json.NewEncoder(w).Encode(map[string]any{
				"properties": map[string]any{
					"Name":       map[string]any{"type": "title"},
					"Visibility": map[string]any{"type": "select"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	ct, err := client.ResolveContainer(context.Background(), testDBID)
	require.NoError(t, err)

	schema, err := client.ContainerSchema(context.Background(), ct)
	require.NoError(t, err)
	assert.True(t, schema.HasSelect("Visibility"))
	assert.False(t, schema.HasSelect("Name"))
	assert.False(t, schema.HasSelect("Missing"))
}

func TestResolveContainerPassesRemoteErrorThrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found"}`))
	}))

	_, err := client.ResolveContainer(context.Background(), testDBID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Body, "object_not_found")
}

func TestCreateParentShapes(t *testing.T) {
	ds := &Container{Mode: ModeDataSource, ID: "ds-1"}
	assert.Equal(t, map[string]any{"type": "data_source_id", "data_source_id": "ds-1"}, ds.CreateParent())

	legacy := &Container{Mode: ModeLegacyDatabase, ID: testDBID}
	assert.Equal(t, map[string]any{"type": "database_id", "database_id": testDBID}, legacy.CreateParent())
}
