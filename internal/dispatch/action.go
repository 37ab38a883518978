package dispatch

// ActionFunc is the executable body of an action.
type ActionFunc func(c *Context) error

// Reserved attribute marking actions that need no dispatch type.
const attrPrivate = "Private"

// Action describes a single registered handler. Actions are immutable
// once registered: the dispatcher and the dispatch types only read them
// during request serving.
type Action struct {
	// Name is the action name, unique within its namespace.
	Name string
	// Namespace is the slash-joined owning namespace with no leading
	// slash; "" is the root namespace.
	Namespace string
	// Class identifies the owning component.
	Class string
	// Execute is the executable reference invoked on dispatch.
	Execute ActionFunc
	// Attributes carries registration metadata. Keys other than
	// "Private" name the dispatch types that index this action.
	Attributes map[string][]string
	// Reverse is the human-readable owner+name form used in listings
	// and error messages.
	Reverse string

	// virtual marks actions synthesized from a bare component method.
	// They carry no namespace and cannot be visited.
	virtual bool
}

// NewAction creates a registrable action. attrs may be nil.
func NewAction(name, namespace, class string, fn ActionFunc, attrs map[string][]string) *Action {
	if attrs == nil {
		attrs = make(map[string][]string)
	}
	reverse := joinPath(namespace, name)
	if class != "" {
		reverse = class + "->" + name
	}
	return &Action{
		Name:       name,
		Namespace:  namespace,
		Class:      class,
		Execute:    fn,
		Attributes: attrs,
		Reverse:    reverse,
	}
}

// PrivatePath returns the action's namespace-qualified name, e.g.
// "user/profile" or "index" for a root action.
func (a *Action) PrivatePath() string {
	return joinPath(a.Namespace, a.Name)
}

// Namespaced reports whether the action has a defined namespace.
// Synthesized component-method actions do not, and fail the Visit and
// Jump preconditions.
func (a *Action) Namespaced() bool {
	return !a.virtual
}

// Attr returns the values of one attribute, or nil.
func (a *Action) Attr(name string) []string {
	return a.Attributes[name]
}

// HasAttr reports whether the attribute is present, even with no values.
func (a *Action) HasAttr(name string) bool {
	_, ok := a.Attributes[name]
	return ok
}

// joinPath joins a namespace and a trailing segment, treating "" as the
// root on either side.
func joinPath(namespace, name string) string {
	switch {
	case namespace == "":
		return name
	case name == "":
		return namespace
	default:
		return namespace + "/" + name
	}
}

// actionKey is the registration slot key: two actions sharing it occupy
// the same slot.
func actionKey(namespace, name string) string {
	return namespace + "/" + name
}
