package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/salonsite/internal/core"
	"github.com/JonMunkholm/salonsite/internal/snapshot"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func newTestServer(t *testing.T, files map[string]string) *Server {
	return NewServer(Options{Root: writeSite(t, files)})
}

func get(s *Server, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_ServesPages(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"cities/springfield-s1/index.html": "<h1>Springfield</h1>",
		"sitemap.xml":                      "<sitemapindex/>",
	})

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"page directory", "/cities/springfield-s1/", http.StatusOK, "<h1>Springfield</h1>"},
		{"redirect to slash", "/cities/springfield-s1", http.StatusMovedPermanently, ""},
		{"file", "/sitemap.xml", http.StatusOK, "<sitemapindex/>"},
		{"missing", "/cities/nowhere/", http.StatusNotFound, "Page not found"},
		{"directory without index", "/cities/", http.StatusNotFound, ""},
		{"traversal", "/../../etc/passwd", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(s, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestServer_SecurityHeaders(t *testing.T) {
	s := newTestServer(t, map[string]string{"index.html": "home"})
	rec := get(s, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(s, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Build(t *testing.T) {
	s := newTestServer(t, map[string]string{"data/build.json": `{"run_id":"run-1"}`})
	rec := get(s, "/api/build")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"run_id":"run-1"}`, rec.Body.String())
}

func TestServer_BuildMissing(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(s, "/api/build")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "WEB404", resp.Code)
	assert.NotEmpty(t, resp.Action)
}

func TestServer_NotFoundJSON(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(s, "/nope", "Accept", "application/json")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Page not found", resp.Error)
}

func TestServer_Snapshot(t *testing.T) {
	ctx := context.Background()
	store, err := snapshot.NewSQLite(ctx, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := NewServer(Options{Root: writeSite(t, nil), Snapshots: store})

	rec := get(s, "/api/snapshot")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "WEB404")

	generated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, snapshot.Snapshot{
		RunID:       "run-7",
		GeneratedAt: generated,
		Dataset: &core.Dataset{
			Salons: []core.SalonView{{ID: "1"}, {ID: "2"}},
			Cities: []core.CityView{{ID: "c1"}},
		},
	}))

	rec = get(s, "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)

	var got SnapshotSummary
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-7", got.RunID)
	assert.True(t, generated.Equal(got.GeneratedAt))
	assert.Equal(t, 2, got.Salons)
	assert.Equal(t, 1, got.Cities)
	assert.Zero(t, got.States)
}

func TestServer_SnapshotDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(s, "/api/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
