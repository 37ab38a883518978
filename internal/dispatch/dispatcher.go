package dispatch

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	apperrors "github.com/pangyre/catalyst-runtime/internal/common/errors"
	"github.com/pangyre/catalyst-runtime/internal/common/logging"
)

// ActionRegistrar is the self-registration hook a component may expose.
// It is called once per component during setup and registers zero or
// more actions with the dispatcher.
type ActionRegistrar interface {
	RegisterActions(d *Dispatcher) error
}

// RegistrarFunc adapts a plain function to ActionRegistrar.
type RegistrarFunc func(d *Dispatcher) error

// RegisterActions implements ActionRegistrar.
func (f RegistrarFunc) RegisterActions(d *Dispatcher) error { return f(d) }

// Auxiliary attributes that refine another dispatch type's behavior and
// never name a type themselves.
var auxiliaryAttrs = map[string]bool{
	attrPrivate:   true,
	"PathPart":    true,
	"CaptureArgs": true,
	"Args":        true,
}

// Options configures a Dispatcher.
type Options struct {
	// Preload names the dispatch types instantiated before any action
	// registers, in priority order. Defaults to Index then Path.
	Preload []string
	// Postload names the dispatch types appended after all handler
	// registration completes. Defaults to Default.
	Postload []string
	// Debug enables the diagnostic listing at the end of setup.
	Debug bool
	// Logger overrides the global logger.
	Logger logging.Logger
}

// Dispatcher owns the namespace tree, the flat action registry and the
// ordered dispatch type collection. Construct it once, register
// components, call SetupActions, and it is immutable and safe for
// concurrent reads from then on.
type Dispatcher struct {
	root       *treeNode
	containers map[string]*ActionContainer
	actions    map[string]*Action

	types  []DispatchType
	loaded map[string]DispatchType

	components     map[string]interface{}
	componentOrder []string

	preload   []string
	postload  []string
	debug     bool
	setupDone bool
	log       logging.Logger
}

// New creates a dispatcher. The root namespace container always exists.
func New(opts Options) *Dispatcher {
	if len(opts.Preload) == 0 {
		opts.Preload = []string{"Index", "Path"}
	}
	if len(opts.Postload) == 0 {
		opts.Postload = []string{"Default"}
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}

	rootContainer := newActionContainer("", "")
	d := &Dispatcher{
		root:       newTreeNode(rootContainer),
		containers: map[string]*ActionContainer{"": rootContainer},
		actions:    make(map[string]*Action),
		loaded:     make(map[string]DispatchType),
		components: make(map[string]interface{}),
		preload:    opts.Preload,
		postload:   opts.Postload,
		debug:      opts.Debug,
		log:        opts.Logger,
	}
	return d
}

// RegisterComponent adds a component under a name. Components
// implementing ActionRegistrar get their hook called during setup, in
// registration order.
func (d *Dispatcher) RegisterComponent(name string, component interface{}) {
	if _, ok := d.components[name]; !ok {
		d.componentOrder = append(d.componentOrder, name)
	}
	d.components[name] = component
}

// Component looks up a registered component by name.
func (d *Dispatcher) Component(name string) (interface{}, bool) {
	component, ok := d.components[name]
	return component, ok
}

// SetupActions runs the registration phase: preload dispatch types are
// instantiated, every component's RegisterActions hook runs, then
// postload types are appended. A dispatch type that cannot be resolved
// here aborts setup. Setup is strictly single-threaded.
func (d *Dispatcher) SetupActions() error {
	if d.setupDone {
		return ErrSetupComplete
	}

	if err := d.loadTypes(d.preload); err != nil {
		return err
	}

	for _, name := range d.componentOrder {
		registrar, ok := d.components[name].(ActionRegistrar)
		if !ok {
			continue
		}
		if err := registrar.RegisterActions(d); err != nil {
			return apperrors.InternalError("component action registration failed", err).
				WithContext("component", name)
		}
	}

	if err := d.loadTypes(d.postload); err != nil {
		return err
	}

	d.setupDone = true

	if d.debug {
		d.Report()
	}
	return nil
}

// Register adds an action to the namespace tree and the flat registry,
// lazily loads any dispatch types its attributes name, and then offers
// the action to every loaded dispatch type in priority order.
func (d *Dispatcher) Register(a *Action) error {
	if d.setupDone {
		return ErrSetupComplete
	}
	if a == nil || a.Name == "" {
		return apperrors.ValidationError("action must have a name")
	}

	container := d.ensureContainer(a.Namespace)
	container.add(a)
	d.actions[actionKey(a.Namespace, a.Name)] = a

	// attribute keys are loaded in sorted order so the resulting type
	// priority does not depend on map iteration
	attrs := make([]string, 0, len(a.Attributes))
	for attr := range a.Attributes {
		if auxiliaryAttrs[attr] {
			continue
		}
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	for _, attr := range attrs {
		d.lazyLoadType(attr)
	}

	for _, t := range d.types {
		t.Register(a)
	}

	d.log.Debug("registered action",
		logging.String("action", a.Reverse),
		logging.String("namespace", a.Namespace))
	return nil
}

// ensureContainer descends the tree to the namespace, lazily creating
// intermediate nodes, and returns its container.
func (d *Dispatcher) ensureContainer(namespace string) *ActionContainer {
	if container, ok := d.containers[namespace]; ok {
		return container
	}

	node := d.root
	prefix := ""
	for _, part := range strings.Split(namespace, "/") {
		prefix = joinPath(prefix, part)
		child, ok := node.children[part]
		if !ok {
			child = newTreeNode(newActionContainer(part, prefix))
			node.children[part] = child
			d.containers[prefix] = child.container
		}
		node = child
	}
	return node.container
}

// container returns the container registered for a namespace, if any.
func (d *Dispatcher) container(namespace string) (*ActionContainer, bool) {
	container, ok := d.containers[namespace]
	return container, ok
}

// walkContainers visits every container, parents before children.
func (d *Dispatcher) walkContainers(visit func(*ActionContainer)) {
	d.root.walk(visit)
}

// GetAction returns the action registered under name in exactly the
// given namespace, or nil.
func (d *Dispatcher) GetAction(name, namespace string) *Action {
	if name == "" {
		return nil
	}
	return d.actions[actionKey(namespace, name)]
}

// GetActionByPath resolves a private path such as "user/profile" or
// "/index" to its action, or nil.
func (d *Dispatcher) GetActionByPath(path string) *Action {
	path = strings.Trim(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return d.GetAction(path, "")
	}
	return d.GetAction(path[idx+1:], path[:idx])
}

// GetActions collects every action called name along the namespace's
// ancestry, root-most first.
func (d *Dispatcher) GetActions(name, namespace string) []*Action {
	var actions []*Action
	for _, container := range d.GetContainers(namespace) {
		if a := container.Action(name); a != nil {
			actions = append(actions, a)
		}
	}
	return actions
}

// GetContainers returns the containers along the namespace's ancestry
// that exist, root first.
func (d *Dispatcher) GetContainers(namespace string) []*ActionContainer {
	containers := []*ActionContainer{d.root.container}
	if namespace == "" {
		return containers
	}

	prefix := ""
	for _, part := range strings.Split(namespace, "/") {
		prefix = joinPath(prefix, part)
		if container, ok := d.containers[prefix]; ok {
			containers = append(containers, container)
		}
	}
	return containers
}

// PrepareAction resolves the request path to an action. Starting from
// the full path it asks the dispatch types for a match, peeling the
// last segment into the argument list on each failure, so deeper
// prefixes win and unmatched trailing segments become positional
// arguments. It reports whether an action was bound.
func (d *Dispatcher) PrepareAction(c *Context) bool {
	req := c.Request()
	path := strings.Trim(req.Path, "/")

	// leading empty segment represents the root
	segments := []string{""}
	if path != "" {
		segments = append(segments, strings.Split(path, "/")...)
	}

	var args []string
	for len(segments) > 0 {
		candidate := strings.TrimPrefix(strings.Join(segments, "/"), "/")
		req.Args = args

		if d.matchPath(c, candidate) {
			// captures are decoded exactly once, after matching
			for i, capture := range req.Captures {
				req.Captures[i] = unescape(capture)
			}
			c.Log().Debug("resolved path",
				logging.String("path", req.Path),
				logging.String("match", req.Match),
				logging.String("action", c.Action().Reverse),
				logging.Strings("args", req.Args))
			return true
		}

		last := segments[len(segments)-1]
		segments = segments[:len(segments)-1]
		if len(segments) == 0 {
			break
		}
		args = append([]string{unescape(last)}, args...)
	}

	req.Args = args
	c.Log().Debug("no action matched", logging.String("path", req.Path))
	return false
}

// Dispatch invokes the action previously resolved onto the context.
// With no action resolved it records an unknown-resource error (or a
// no-default-action error for the empty path) and reports false.
func (d *Dispatcher) Dispatch(c *Context) bool {
	a := c.Action()
	if a == nil {
		if c.Request().Path != "" {
			c.AddError(apperrors.NotFoundError(
				fmt.Sprintf("resource %q", c.Request().Path)).
				WithContext("cause", ErrUnknownResource.Error()))
		} else {
			c.AddError(apperrors.NotFoundError("default action").
				WithContext("cause", ErrNoDefaultAction.Error()))
		}
		c.SetState(false)
		return false
	}
	d.invoke(c, a)
	return c.State()
}

// Report logs the namespace tree and each dispatch type's listing.
func (d *Dispatcher) Report() {
	d.walkContainers(func(ac *ActionContainer) {
		for _, a := range ac.Actions() {
			d.log.Info("loaded action",
				logging.String("namespace", "/"+ac.Namespace()),
				logging.String("action", a.Reverse))
		}
	})
	for _, t := range d.types {
		for _, line := range t.List() {
			d.log.Info("loaded route", logging.String("type", t.Name()), logging.String("route", line))
		}
	}
}

// unescape percent-decodes one path segment, tolerating malformed input.
func unescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
