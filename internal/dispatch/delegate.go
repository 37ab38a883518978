package dispatch

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/pangyre/catalyst-runtime/internal/common/errors"
	"github.com/pangyre/catalyst-runtime/internal/common/logging"
)

// AbortScope distinguishes the two non-local exits.
type AbortScope int

const (
	// AbortHandler unwinds the current handler chain; raised by Detach.
	AbortHandler AbortScope = iota + 1
	// AbortRequest unwinds every pending delegation; raised by Jump.
	AbortRequest
)

// String returns a human-readable scope name.
func (s AbortScope) String() string {
	switch s {
	case AbortHandler:
		return "handler"
	case AbortRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Abort is the control-flow signal raised by Detach and Jump. It is not
// an error: it propagates past ordinary call boundaries until the
// request boundary consumes it, and any intermediate recover must
// re-raise it unchanged.
type Abort struct {
	Scope AbortScope
}

// RecoverAbort inspects a value returned by recover. Abort values are
// returned for the boundary to act on; nil reports false; anything else
// is re-raised so ordinary panics stay fatal.
func RecoverAbort(r interface{}) (Abort, bool) {
	if r == nil {
		return Abort{}, false
	}
	if abort, ok := r.(Abort); ok {
		return abort, true
	}
	panic(r)
}

// MethodRef names a method on a component for command resolution. The
// Component field holds either a registered component name or the
// component value itself. An empty Method selects "Process".
type MethodRef struct {
	Component interface{}
	Method    string
}

// Forward resolves a command and invokes it in place. The caller's
// control flow continues normally afterwards; the forwarded action's
// terminal state is returned. A command that cannot be resolved records
// a request-level error and yields false without raising any signal.
func (d *Dispatcher) Forward(c *Context, command interface{}, args ...string) bool {
	a, fargs, _ := d.resolveCommand(c, command, args, nil)
	if a == nil {
		err := apperrors.DispatchError(
			fmt.Sprintf("could not forward to %s: %s", commandName(command), ErrInvalidCommand)).
			WithContext("cause", ErrInvalidCommand.Error())
		c.AddError(err)
		c.Log().Debug("forward failed", logging.Err(err))
		c.SetState(false)
		return false
	}

	// the forwarded call sees its own arguments
	prevArgs := c.Request().Args
	c.Request().Args = fargs
	defer func() { c.Request().Args = prevArgs }()

	d.invoke(c, a)
	return c.State()
}

// Detach forwards like Forward and then aborts the current handler
// chain. It never returns to its caller: the Abort unwinds to the
// request boundary even when the command did not resolve. A nil command
// skips the forward and just aborts.
func (d *Dispatcher) Detach(c *Context, command interface{}, args ...string) {
	if command != nil {
		d.Forward(c, command, args...)
	}
	panic(Abort{Scope: AbortHandler})
}

// Visit dispatches another action under a temporarily rebound
// namespace, action and argument list, restoring the previous values on
// every exit path. The target must be a namespaced action with a
// dispatch entry point; a precondition failure records an error and
// reports false without dispatching.
func (d *Dispatcher) Visit(c *Context, command interface{}, args ...string) bool {
	return d.visit(c, "visit", command, args)
}

// Jump is Visit followed by an unconditional whole-request abort: it
// never returns, whether or not the visit dispatched.
func (d *Dispatcher) Jump(c *Context, command interface{}, args ...string) {
	d.visit(c, "jump", command, args)
	panic(Abort{Scope: AbortRequest})
}

func (d *Dispatcher) visit(c *Context, verb string, command interface{}, args []string) bool {
	fail := func(reason error) bool {
		err := apperrors.DispatchError(
			fmt.Sprintf("could not %s %s: %s", verb, commandName(command), reason)).
			WithContext("cause", reason.Error())
		c.AddError(err)
		c.Log().Warn(verb+" failed", logging.Err(err))
		c.SetState(false)
		return false
	}

	a, fargs, fcaps := d.resolveCommand(c, command, args, nil)
	switch {
	case a == nil:
		return fail(ErrInvalidCommand)
	case !a.Namespaced():
		return fail(ErrNotNamespaced)
	case a.Execute == nil:
		return fail(ErrNotDispatchable)
	}

	req := c.Request()
	prevNamespace := c.Namespace()
	prevAction := c.Action()
	prevArgs := req.Args
	prevCaptures := req.Captures

	c.SetNamespace(a.Namespace)
	c.SetAction(a)
	req.Args = fargs
	if fcaps != nil {
		req.Captures = fcaps
	}

	// restore runs on normal return, error return and abort unwind
	defer func() {
		c.SetNamespace(prevNamespace)
		c.SetAction(prevAction)
		req.Args = prevArgs
		req.Captures = prevCaptures
	}()

	d.invoke(c, a)
	return c.State()
}

// invoke expands and executes an action on top of the active action
// stack, recording any error and setting the terminal state. The stack
// pop is deferred so abort unwinds leave the stack consistent.
func (d *Dispatcher) invoke(c *Context, a *Action) {
	a = d.ExpandAction(a)

	c.stack = append(c.stack, a)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	if a.Execute == nil {
		c.AddError(apperrors.DispatchError(
			fmt.Sprintf("action %s has no executable", a.Reverse)).
			WithContext("cause", ErrNotDispatchable.Error()))
		c.SetState(false)
		return
	}

	if err := a.Execute(c); err != nil {
		c.AddError(err)
		c.SetState(false)
		return
	}
	c.SetState(true)
}

// resolveCommand turns a delegation command into an action plus the
// arguments and captures the invocation should see. Commands may be an
// *Action, a string path (relative paths resolve against the executing
// action's namespace, with trailing segments peeled into arguments), a
// MethodRef, or a bare component value whose Process method is wrapped
// into a synthesized action. It returns a nil action when nothing
// resolves; no error escapes this layer.
func (d *Dispatcher) resolveCommand(c *Context, command interface{}, args, captures []string) (*Action, []string, []string) {
	switch cmd := command.(type) {
	case nil:
		return nil, args, captures
	case *Action:
		return cmd, args, captures
	case string:
		if a, fargs := d.resolveCommandPath(c, cmd, args); a != nil {
			return a, fargs, captures
		}
		// fall back to a registered component of that name
		if component, ok := d.Component(cmd); ok {
			return methodAction(component, ""), args, captures
		}
		return nil, args, captures
	case MethodRef:
		component := cmd.Component
		if name, ok := component.(string); ok {
			registered, found := d.Component(name)
			if !found {
				return nil, args, captures
			}
			component = registered
		}
		return methodAction(component, cmd.Method), args, captures
	default:
		return methodAction(command, ""), args, captures
	}
}

// resolveCommandPath resolves a string command against the flat action
// registry: an exact name lookup per namespace level, peeling unmatched
// trailing segments into arguments.
func (d *Dispatcher) resolveCommandPath(c *Context, path string, args []string) (*Action, []string) {
	if !strings.HasPrefix(path, "/") {
		base := c.Namespace()
		if last := c.LastAction(); last != nil && last.Namespaced() {
			base = last.Namespace
		}
		path = joinPath(base, path)
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, args
	}

	segments := strings.Split(path, "/")
	var peeled []string
	for len(segments) > 0 {
		name := segments[len(segments)-1]
		namespace := strings.Join(segments[:len(segments)-1], "/")
		if a := d.GetAction(name, namespace); a != nil {
			return a, append(peeled, args...)
		}
		segments = segments[:len(segments)-1]
		peeled = append([]string{name}, peeled...)
	}
	return nil, args
}

// methodAction synthesizes an ad-hoc action around a component method
// with signature func(*Context) error. The result is virtual: it has no
// namespace and cannot be visited. Returns nil when the method does not
// exist or has the wrong shape.
func methodAction(component interface{}, method string) *Action {
	if component == nil {
		return nil
	}
	if method == "" {
		method = "Process"
	}

	value := reflect.ValueOf(component)
	if !value.IsValid() || (value.Kind() == reflect.Ptr && value.IsNil()) {
		return nil
	}
	m := value.MethodByName(method)
	if !m.IsValid() {
		return nil
	}
	fn, ok := m.Interface().(func(*Context) error)
	if !ok {
		return nil
	}

	class := reflect.Indirect(value).Type().String()
	return &Action{
		Name:       strings.ToLower(method),
		Class:      class,
		Execute:    fn,
		Attributes: map[string][]string{attrPrivate: nil},
		Reverse:    class + "->" + method,
		virtual:    true,
	}
}

// commandName renders a command for error messages.
func commandName(command interface{}) string {
	switch cmd := command.(type) {
	case nil:
		return "<nil>"
	case *Action:
		if cmd == nil {
			return "<nil>"
		}
		return cmd.Reverse
	case string:
		return fmt.Sprintf("%q", cmd)
	case MethodRef:
		method := cmd.Method
		if method == "" {
			method = "Process"
		}
		return fmt.Sprintf("%v->%s", cmd.Component, method)
	default:
		return reflect.TypeOf(command).String()
	}
}
