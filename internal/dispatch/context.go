package dispatch

import (
	"bytes"
	"context"
	"strings"

	"github.com/pangyre/catalyst-runtime/internal/common/logging"
)

// Request carries the resolvable parts of an incoming request. Args and
// Captures are mutable during resolution and delegation; everything is
// request-scoped.
type Request struct {
	// Path is the request path with no leading slash; "" addresses the
	// root namespace. Segments stay percent-encoded until resolution
	// decodes them, exactly once, after strategy matching.
	Path string
	// Match is the candidate path the winning strategy claimed.
	Match string
	// Args are the positional arguments peeled off the path.
	Args []string
	// Captures are the values bound by a pattern-capable strategy.
	Captures []string
}

// NewRequest creates a request for the given path. A leading slash and
// a trailing slash are stripped, so "/" and "" both address the root.
func NewRequest(path string) *Request {
	return &Request{Path: strings.Trim(path, "/")}
}

// Response is the minimal response surface handlers write to. Response
// construction proper belongs to the transport; this is only the seam
// the dispatcher hands through.
type Response struct {
	Status int
	Body   bytes.Buffer
}

// Context is the per-request state threaded through resolution,
// dispatch and delegation. It must not be shared between concurrent
// requests.
type Context struct {
	ctx  context.Context
	disp *Dispatcher
	req  *Request
	resp *Response
	log  logging.Logger

	action    *Action
	namespace string
	stack     []*Action
	errs      []error
	state     bool
	stash     map[string]interface{}
}

// NewContext creates the per-request context. ctx may carry a request
// ID for log correlation.
func NewContext(ctx context.Context, d *Dispatcher, req *Request) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		ctx:   ctx,
		disp:  d,
		req:   req,
		resp:  &Response{},
		log:   d.log.WithContext(ctx),
		stash: make(map[string]interface{}),
	}
}

// Context returns the underlying context.Context.
func (c *Context) Context() context.Context { return c.ctx }

// Request returns the request being resolved.
func (c *Context) Request() *Request { return c.req }

// Response returns the response seam.
func (c *Context) Response() *Response { return c.resp }

// Dispatcher returns the owning dispatcher.
func (c *Context) Dispatcher() *Dispatcher { return c.disp }

// Log returns the request-scoped logger.
func (c *Context) Log() logging.Logger { return c.log }

// Stash is a request-scoped scratch space shared across delegations.
func (c *Context) Stash() map[string]interface{} { return c.stash }

// Action returns the resolved action, or nil before resolution.
func (c *Context) Action() *Action { return c.action }

// SetAction binds the resolved action. Dispatch types call this from
// Match; it is exported so external strategies can do the same.
func (c *Context) SetAction(a *Action) { c.action = a }

// Namespace returns the current namespace.
func (c *Context) Namespace() string { return c.namespace }

// SetNamespace sets the current namespace.
func (c *Context) SetNamespace(ns string) { c.namespace = ns }

// Stack returns a copy of the active action stack, outermost first.
func (c *Context) Stack() []*Action {
	out := make([]*Action, len(c.stack))
	copy(out, c.stack)
	return out
}

// LastAction returns the innermost executing action, or nil.
func (c *Context) LastAction() *Action {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// AddError appends err to the request-level error list. Errors
// accumulate so the boundary can report them together.
func (c *Context) AddError(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// Errors returns the accumulated request-level errors.
func (c *Context) Errors() []error {
	out := make([]error, len(c.errs))
	copy(out, c.errs)
	return out
}

// HasErrors reports whether any request-level error was recorded.
func (c *Context) HasErrors() bool { return len(c.errs) > 0 }

// State reports the terminal state of the most recent invocation: true
// when the action completed without error.
func (c *Context) State() bool { return c.state }

// SetState overrides the terminal state.
func (c *Context) SetState(ok bool) { c.state = ok }

// Component looks up a registered component by name.
func (c *Context) Component(name string) (interface{}, bool) {
	return c.disp.Component(name)
}

// Forward delegates to another action in place; the caller's control
// flow continues when it returns. See Dispatcher.Forward.
func (c *Context) Forward(command interface{}, args ...string) bool {
	return c.disp.Forward(c, command, args...)
}

// Detach delegates like Forward and then aborts the current handler
// chain. It does not return. See Dispatcher.Detach.
func (c *Context) Detach(command interface{}, args ...string) {
	c.disp.Detach(c, command, args...)
}

// Visit dispatches another action under a temporarily rebound
// namespace, restoring the previous state on exit. See Dispatcher.Visit.
func (c *Context) Visit(command interface{}, args ...string) bool {
	return c.disp.Visit(c, command, args...)
}

// Jump is Visit followed by an unconditional whole-request abort. It
// does not return. See Dispatcher.Jump.
func (c *Context) Jump(command interface{}, args ...string) {
	c.disp.Jump(c, command, args...)
}
