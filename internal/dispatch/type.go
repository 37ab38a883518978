package dispatch

import (
	"fmt"
	"strings"

	apperrors "github.com/pangyre/catalyst-runtime/internal/common/errors"
	"github.com/pangyre/catalyst-runtime/internal/common/logging"
	"github.com/pangyre/catalyst-runtime/internal/common/registry"
)

// DispatchType is the capability set every matching strategy implements.
// Strategies are independent and compose without knowledge of each
// other; the dispatcher tries them in loading order, so a more specific
// strategy gets first refusal over a catch-all.
type DispatchType interface {
	// Name returns the strategy's registered name.
	Name() string

	// Match reports whether the strategy claims the candidate path. On
	// success it binds the resolved action (and, for pattern-capable
	// strategies, the captures) onto the context.
	Match(c *Context, path string) bool

	// Register indexes an action. Every loaded strategy sees every
	// registered action and decides for itself whether to index it.
	// It reports whether the action was indexed.
	Register(a *Action) bool

	// URIForAction produces the path that routes to the action with the
	// given captures, or reports false when this strategy cannot.
	URIForAction(a *Action, captures []string) (string, bool)

	// ExpandAction materializes a composite action into its full
	// dispatchable form, or returns nil when it does not apply.
	ExpandAction(a *Action) *Action

	// List returns a diagnostic enumeration of the strategy's routes.
	List() []string
}

// Factory builds a dispatch type bound to its dispatcher.
type Factory func(d *Dispatcher) DispatchType

var (
	builtinTypes   = registry.New[Factory]()
	extensionTypes = registry.New[Factory]()
)

func init() {
	builtinTypes.Register("Index", newIndexType)
	builtinTypes.Register("Path", newPathType)
	builtinTypes.Register("Regex", newRegexType)
	builtinTypes.Register("Chained", newChainedType)
	builtinTypes.Register("Default", newDefaultType)
}

// RegisterDispatchType registers an external strategy factory. It is
// loaded by listing its name with a "+" prefix, or lazily through an
// action attribute of the same prefixed form.
func RegisterDispatchType(name string, f Factory) {
	extensionTypes.Register(name, f)
}

// resolveFactory maps a configured name to its factory. A bare name
// selects a built-in strategy; a "+" prefix selects an extension
// verbatim. The name itself is the loaded-identity key.
func resolveFactory(name string) (Factory, error) {
	name = strings.TrimSpace(name)
	if custom, ok := strings.CutPrefix(name, "+"); ok {
		f, err := extensionTypes.Get(custom)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDispatchType, name)
		}
		return f, nil
	}
	f, err := builtinTypes.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDispatchType, name)
	}
	return f, nil
}

// loadTypes resolves and instantiates each named strategy in order,
// appending it to the live collection. A name that was already loaded
// is skipped. An unresolvable name is fatal: a misconfigured strategy
// list makes subsequent behavior undefined.
func (d *Dispatcher) loadTypes(names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := d.loaded[name]; ok {
			continue
		}
		factory, err := resolveFactory(name)
		if err != nil {
			return apperrors.ConfigError("failed to load dispatch type").
				WithContext("type", name).
				WithContext("cause", err.Error())
		}
		d.addType(name, factory(d))
	}
	return nil
}

// lazyLoadType loads the strategy an action attribute names, at most
// once. An unresolvable name is skipped rather than fatal, since only
// that attribute's routing feature is lost; it is logged so a
// misconfiguration stays visible.
func (d *Dispatcher) lazyLoadType(name string) {
	if _, ok := d.loaded[name]; ok {
		return
	}
	factory, err := resolveFactory(name)
	if err != nil {
		d.log.Warn("skipping unavailable dispatch type",
			logging.String("type", name))
		return
	}
	d.addType(name, factory(d))
}

func (d *Dispatcher) addType(name string, t DispatchType) {
	d.types = append(d.types, t)
	d.loaded[name] = t
	d.log.Debug("loaded dispatch type", logging.String("type", name))
}

// Types returns the loaded strategies in priority order.
func (d *Dispatcher) Types() []DispatchType {
	out := make([]DispatchType, len(d.types))
	copy(out, d.types)
	return out
}

// DispatchTypeByName returns the live strategy instance loaded under
// the given name. It reports false for strategies that were never
// loaded, whether or not a factory for them exists.
func (d *Dispatcher) DispatchTypeByName(name string) (DispatchType, bool) {
	t, ok := d.loaded[strings.TrimSpace(name)]
	return t, ok
}

// matchPath tries each loaded strategy in priority order. The first
// strategy to claim the path wins; no further strategies are tried.
func (d *Dispatcher) matchPath(c *Context, path string) bool {
	for _, t := range d.types {
		if t.Match(c, path) {
			return true
		}
	}
	return false
}

// ExpandAction asks each strategy to materialize a composite action.
// The first non-nil expansion wins; if none applies the action is
// returned unchanged.
func (d *Dispatcher) ExpandAction(a *Action) *Action {
	if a == nil {
		return nil
	}
	for _, t := range d.types {
		if expanded := t.ExpandAction(a); expanded != nil {
			return expanded
		}
	}
	return a
}

// URIForAction asks each strategy, in priority order, for a path that
// routes to the action with the given captures. The first non-empty
// answer wins; an empty-string answer is normalized to "/". It reports
// false when no strategy can produce a path.
func (d *Dispatcher) URIForAction(a *Action, captures []string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, t := range d.types {
		if uri, ok := t.URIForAction(a, captures); ok {
			if uri == "" {
				uri = "/"
			}
			return uri, true
		}
	}
	return "", false
}
