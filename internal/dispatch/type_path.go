package dispatch

import (
	"fmt"
	"strings"
)

// pathType matches literal paths declared through the "Path" attribute.
// A relative attribute value is prefixed with the action's namespace;
// an absolute one (leading slash) is used verbatim; an empty value
// binds the action to the namespace itself. A value-less attribute
// registers the action at its own namespace/name path.
type pathType struct {
	d *Dispatcher
	// actions registered per literal path, most recent first
	paths map[string][]*Action
	order []string
	// first registered path per action slot, for URI generation
	uris map[string]string
}

func newPathType(d *Dispatcher) DispatchType {
	return &pathType{
		d:     d,
		paths: make(map[string][]*Action),
		uris:  make(map[string]string),
	}
}

func (t *pathType) Name() string { return "Path" }

func (t *pathType) Match(c *Context, path string) bool {
	actions := t.paths[path]
	if len(actions) == 0 {
		return false
	}
	a := actions[0]
	c.SetAction(a)
	c.SetNamespace(a.Namespace)
	c.Request().Match = path
	return true
}

func (t *pathType) Register(a *Action) bool {
	values, ok := a.Attributes["Path"]
	if !ok {
		return false
	}
	// a Path attribute with no value registers at namespace/name
	if len(values) == 0 {
		t.registerPath(a.PrivatePath(), a)
		return true
	}
	for _, raw := range values {
		t.registerPath(normalizePath(raw, a.Namespace), a)
	}
	return true
}

func (t *pathType) registerPath(path string, a *Action) {
	if _, ok := t.paths[path]; !ok {
		t.order = append(t.order, path)
	}
	// later registrations take precedence at match time
	t.paths[path] = append([]*Action{a}, t.paths[path]...)

	key := actionKey(a.Namespace, a.Name)
	if _, ok := t.uris[key]; !ok {
		t.uris[key] = path
	}
}

func (t *pathType) URIForAction(a *Action, captures []string) (string, bool) {
	if len(captures) > 0 {
		return "", false
	}
	uri, ok := t.uris[actionKey(a.Namespace, a.Name)]
	return uri, ok
}

func (t *pathType) ExpandAction(a *Action) *Action { return nil }

func (t *pathType) List() []string {
	lines := make([]string, 0, len(t.order))
	for _, path := range t.order {
		lines = append(lines, fmt.Sprintf("/%s => %s", path, t.paths[path][0].Reverse))
	}
	return lines
}

// normalizePath resolves a Path attribute value against a namespace.
func normalizePath(raw, namespace string) string {
	if strings.HasPrefix(raw, "/") {
		return strings.Trim(raw, "/")
	}
	return joinPath(namespace, strings.TrimSuffix(raw, "/"))
}
