package dispatch

import "fmt"

// indexType matches namespace index actions: an action named "index"
// claims its namespace's own path, but only when no trailing segments
// were peeled into arguments.
type indexType struct {
	d *Dispatcher
}

func newIndexType(d *Dispatcher) DispatchType {
	return &indexType{d: d}
}

func (t *indexType) Name() string { return "Index" }

func (t *indexType) Match(c *Context, path string) bool {
	if len(c.Request().Args) > 0 {
		return false
	}
	container, ok := t.d.container(path)
	if !ok {
		return false
	}
	a := container.Action("index")
	if a == nil {
		return false
	}
	c.SetAction(a)
	c.SetNamespace(a.Namespace)
	c.Request().Match = path
	return true
}

// Register is a no-op: index actions are found through the namespace
// containers at match time.
func (t *indexType) Register(a *Action) bool { return false }

func (t *indexType) URIForAction(a *Action, captures []string) (string, bool) {
	if a.Name != "index" || len(captures) > 0 || !a.Namespaced() {
		return "", false
	}
	if t.d.GetAction("index", a.Namespace) != a {
		return "", false
	}
	return a.Namespace, true
}

func (t *indexType) ExpandAction(a *Action) *Action { return nil }

func (t *indexType) List() []string {
	var lines []string
	t.d.walkContainers(func(ac *ActionContainer) {
		if a := ac.Action("index"); a != nil {
			lines = append(lines, fmt.Sprintf("/%s => %s", ac.Namespace(), a.Reverse))
		}
	})
	return lines
}
