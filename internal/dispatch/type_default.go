package dispatch

import "fmt"

// defaultType is the catch-all: an action named "default" claims its
// namespace's path regardless of how many trailing segments were peeled
// into arguments. It is postloaded so every specific strategy gets
// first refusal.
type defaultType struct {
	d *Dispatcher
}

func newDefaultType(d *Dispatcher) DispatchType {
	return &defaultType{d: d}
}

func (t *defaultType) Name() string { return "Default" }

func (t *defaultType) Match(c *Context, path string) bool {
	container, ok := t.d.container(path)
	if !ok {
		return false
	}
	a := container.Action("default")
	if a == nil {
		return false
	}
	c.SetAction(a)
	c.SetNamespace(a.Namespace)
	c.Request().Match = path
	return true
}

// Register is a no-op: default actions are found through the namespace
// containers at match time.
func (t *defaultType) Register(a *Action) bool { return false }

// URIForAction reports false: a catch-all has no canonical path.
func (t *defaultType) URIForAction(a *Action, captures []string) (string, bool) {
	return "", false
}

func (t *defaultType) ExpandAction(a *Action) *Action { return nil }

func (t *defaultType) List() []string {
	var lines []string
	t.d.walkContainers(func(ac *ActionContainer) {
		if a := ac.Action("default"); a != nil {
			lines = append(lines, fmt.Sprintf("/%s/... => %s", ac.Namespace(), a.Reverse))
		}
	})
	return lines
}
