package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pangyre/catalyst-runtime/internal/config"
	"github.com/pangyre/catalyst-runtime/internal/server"
)

func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	app, err := New(config.Load())
	require.NoError(t, err)
	return app
}

func get(t *testing.T, app *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	server.NewRouter(app.Dispatcher).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAppRoutes(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"root index", "/", http.StatusOK, "catalyst dispatch server\n"},
		{"literal path", "/hello", http.StatusOK, "hello, world\n"},
		{"peeled argument", "/hello/sam", http.StatusOK, "hello, sam\n"},
		{"pattern capture forwards to renderer", "/page/about", http.StatusOK, "# about\n\nAbout this server.\n"},
		{"unknown page detaches into catch-all", "/page/missing", http.StatusNotFound, "no such page\n"},
		{"unknown resource", "/nothing/here", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, app, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestStatusPageListsRoutes(t *testing.T) {
	app := testApp(t)

	rec := get(t, app, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "[Index]")
	assert.Contains(t, body, "[Path]")
	assert.Contains(t, body, "[Regex]")
	assert.Contains(t, body, "[Default]")
	assert.Contains(t, body, "hello")
}

func TestPrivateActionNotRoutable(t *testing.T) {
	app := testApp(t)

	// the renderer is only reachable by forwarding
	rec := get(t, app, "/page/render")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
