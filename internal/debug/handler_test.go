package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"angelbridge/internal/gate"
	"angelbridge/internal/notion"
	"angelbridge/pkg/utils"
)

const testDBID = "01234567-89ab-cdef-0123-456789abcdef"

func setup(t *testing.T, remote http.Handler, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)

	cfg := utils.Config{
		Token:        "secret_abcd1234",
		DatabaseID:   testDBID,
		SharedSecret: secret,
		Labels:       utils.DefaultLabels(),
	}
	h := NewHandler(notion.NewClient(srv.URL, cfg.Token, nil), cfg)

	r := gin.New()
	h.RegisterRoutes(r, gate.Middleware(secret))
	return r
}

func remoteWithDataSource() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/databases/" + testDBID:
			json.NewEncoder(w).Encode(map[string]any{
				"object":       "database",
				"id":           testDBID,
				"title":        []map[string]any{{"plain_text": "Journal"}},
				"data_sources": []map[string]any{{"id": "ds-1", "name": "Main"}},
			})
		case "/v1/data_sources/ds-1":
			json.NewEncoder(w).Encode(map[string]any{
				"properties": map[string]any{
					"Name":    map[string]any{"type": "title"},
					"Compass": map[string]any{"type": "multi_select"},
				},
			})
		}
	})
}

func TestEnvReportsPresenceButNotToken(t *testing.T) {
	r := setup(t, remoteWithDataSource(), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/env", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["token_present"])
	assert.Equal(t, "1234", resp["token_tail"])
	assert.Equal(t, testDBID, resp["db_value"])
	assert.Equal(t, notion.APIVersion, resp["notion_version"])
	assert.NotContains(t, w.Body.String(), "secret_abcd1234")
}

func TestProbeDBReportsAddressing(t *testing.T) {
	r := setup(t, remoteWithDataSource(), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe/db", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Journal", resp["title_plain"])
	assert.Equal(t, string(notion.ModeDataSource), resp["mode"])
	assert.Equal(t, "ds-1", resp["address_id"])
}

func TestSchemaReturnsLabelKindTable(t *testing.T) {
	r := setup(t, remoteWithDataSource(), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/schema", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var schema map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schema))
	assert.Equal(t, map[string]string{"Name": "title", "Compass": "multi_select"}, schema)
}

func TestIntrospectionSitsBehindGate(t *testing.T) {
	r := setup(t, remoteWithDataSource(), "s3cret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/schema", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/debug/schema", nil)
	req.Header.Set(gate.HeaderName, "s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoteErrorPassesThrough(t *testing.T) {
	r := setup(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"object":"error","code":"unauthorized"}`))
	}), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe/db", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
}
