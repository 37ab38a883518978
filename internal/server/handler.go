package server

import (
	"net/http"

	apperrors "github.com/pangyre/catalyst-runtime/internal/common/errors"
	"github.com/pangyre/catalyst-runtime/internal/common/logging"
	"github.com/pangyre/catalyst-runtime/internal/dispatch"
)

// Handler is the request boundary: it resolves the path, dispatches the
// resulting action and renders the outcome. It is also where abort
// signals raised by delegation stop unwinding.
type Handler struct {
	d *dispatch.Dispatcher
}

// NewHandler creates the dispatch boundary handler.
func NewHandler(d *dispatch.Dispatcher) *Handler {
	return &Handler{d: d}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := dispatch.NewContext(r.Context(), h.d, dispatch.NewRequest(r.URL.Path))

	h.run(c)
	h.render(w, c)
}

// run resolves and dispatches under an abort recovery. A Detach or Jump
// anywhere in the delegation chain lands here; the response the
// handlers wrote so far is final. The consumed scope is logged so
// handler-chain aborts stay distinguishable from whole-request aborts.
func (h *Handler) run(c *dispatch.Context) {
	defer func() {
		if abort, ok := dispatch.RecoverAbort(recover()); ok {
			c.Log().Debug("request aborted",
				logging.String("scope", abort.Scope.String()))
		}
	}()

	h.d.PrepareAction(c)
	h.d.Dispatch(c)
}

// render translates the dispatch outcome to an HTTP response. An
// explicit status set by a handler wins; otherwise the accumulated
// errors pick one.
func (h *Handler) render(w http.ResponseWriter, c *dispatch.Context) {
	status := c.Response().Status
	if status == 0 {
		status = statusFor(c)
	}

	w.WriteHeader(status)
	if c.Response().Body.Len() > 0 {
		_, _ = c.Response().Body.WriteTo(w)
	}
}

func statusFor(c *dispatch.Context) int {
	if !c.HasErrors() {
		return http.StatusOK
	}
	for _, err := range c.Errors() {
		if !apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			return http.StatusInternalServerError
		}
	}
	return http.StatusNotFound
}
