package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pangyre/catalyst-runtime/internal/common/logging"
	"github.com/pangyre/catalyst-runtime/internal/dispatch"
)

func testDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
	require.NoError(t, err)

	d := dispatch.New(dispatch.Options{Logger: logger})
	d.RegisterComponent("site", dispatch.RegistrarFunc(func(d *dispatch.Dispatcher) error {
		if err := d.Register(dispatch.NewAction("index", "", "Site", func(c *dispatch.Context) error {
			c.Response().Body.WriteString("home")
			return nil
		}, nil)); err != nil {
			return err
		}
		if err := d.Register(dispatch.NewAction("teapot", "", "Site", func(c *dispatch.Context) error {
			c.Response().Status = http.StatusTeapot
			c.Detach(nil)
			return nil
		}, map[string][]string{"Path": {"teapot"}})); err != nil {
			return err
		}
		return d.Register(dispatch.NewAction("boom", "", "Site", func(c *dispatch.Context) error {
			return assert.AnError
		}, map[string][]string{"Path": {"boom"}}))
	}))
	require.NoError(t, d.SetupActions())
	return d
}

func TestHandler_DispatchesResolvedAction(t *testing.T) {
	router := NewRouter(testDispatcher(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandler_UnknownPathIs404(t *testing.T) {
	router := NewRouter(testDispatcher(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/thing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ActionErrorIs500(t *testing.T) {
	router := NewRouter(testDispatcher(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_DetachAbortStopsAtBoundary(t *testing.T) {
	router := NewRouter(testDispatcher(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	// the abort unwound to the boundary; the status the handler set
	// before detaching is kept
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestHandler_LogsConsumedAbortScope(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:  logging.DebugLevel,
		Output: &buf,
	})
	require.NoError(t, err)

	d := dispatch.New(dispatch.Options{Logger: logger})
	d.RegisterComponent("flow", dispatch.RegistrarFunc(func(d *dispatch.Dispatcher) error {
		if err := d.Register(dispatch.NewAction("done", "", "Flow", func(c *dispatch.Context) error {
			return nil
		}, nil)); err != nil {
			return err
		}
		if err := d.Register(dispatch.NewAction("stop", "", "Flow", func(c *dispatch.Context) error {
			c.Detach(nil)
			return nil
		}, map[string][]string{"Path": {"stop"}})); err != nil {
			return err
		}
		return d.Register(dispatch.NewAction("restart", "", "Flow", func(c *dispatch.Context) error {
			c.Jump("/done")
			return nil
		}, map[string][]string{"Path": {"restart"}}))
	}))
	require.NoError(t, d.SetupActions())
	h := NewHandler(d)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stop", nil))
	assert.Contains(t, buf.String(), "request aborted")
	assert.Contains(t, buf.String(), `"handler"`)

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/restart", nil))
	assert.Contains(t, buf.String(), "request aborted")
	assert.Contains(t, buf.String(), `"request"`)
}

func TestHandler_ClientRequestIDKept(t *testing.T) {
	router := NewRouter(testDispatcher(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
