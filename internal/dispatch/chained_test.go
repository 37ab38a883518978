package dispatch

import (
	"reflect"
	"testing"
)

// shopChain wires a two-link chain: a midpoint consuming one capture
// and an endpoint taking the remaining segments as arguments.
//
//	/shop/<id>/item/<args...>
func shopChain(log *[]string) (shop, item *Action) {
	if log == nil {
		log = new([]string)
	}
	shop = recordAction("shop", "", map[string][]string{
		"Chained":     {"/"},
		"CaptureArgs": {"1"},
	}, log)
	item = recordAction("item", "", map[string][]string{
		"Chained": {"shop"},
	}, log)
	return shop, item
}

func TestChained_MatchSplitsCapturesAndArgs(t *testing.T) {
	var log []string
	shop, item := shopChain(&log)
	d := buildDispatcher(t, Options{}, shop, item)

	c := newTestContext(d, "/shop/42/item/9/extra")
	if !d.PrepareAction(c) {
		t.Fatal("the chain should claim the path")
	}
	if c.Action() != item {
		t.Errorf("action = %v, want the endpoint", c.Action())
	}
	if !reflect.DeepEqual(c.Request().Captures, []string{"42"}) {
		t.Errorf("captures = %v, want [42]", c.Request().Captures)
	}
	if !reflect.DeepEqual(c.Request().Args, []string{"9", "extra"}) {
		t.Errorf("args = %v, want [9 extra]", c.Request().Args)
	}
	if c.Request().Match != "shop/42/item/9/extra" {
		t.Errorf("match = %q, want the full path", c.Request().Match)
	}
}

func TestChained_ArgumentsAreDecoded(t *testing.T) {
	shop, item := shopChain(nil)
	d := buildDispatcher(t, Options{}, shop, item)

	c := newTestContext(d, "/shop/a%2Fb/item/x%20y")
	if !d.PrepareAction(c) {
		t.Fatal("the chain should claim the path")
	}
	if !reflect.DeepEqual(c.Request().Captures, []string{"a/b"}) {
		t.Errorf("captures = %v, want [a/b]", c.Request().Captures)
	}
	if !reflect.DeepEqual(c.Request().Args, []string{"x y"}) {
		t.Errorf("args = %v, want [x y]", c.Request().Args)
	}
}

func TestChained_DispatchRunsLinksRootFirst(t *testing.T) {
	var log []string
	shop, item := shopChain(&log)
	d := buildDispatcher(t, Options{}, shop, item)

	c := newTestContext(d, "/shop/42/item")
	if !d.PrepareAction(c) {
		t.Fatal("the chain should claim the path")
	}
	if !d.Dispatch(c) {
		t.Fatalf("Dispatch() failed: %v", c.Errors())
	}
	if !reflect.DeepEqual(log, []string{"shop", "item"}) {
		t.Errorf("execution order = %v, want [shop item]", log)
	}
}

func TestChained_EndpointArgsBound(t *testing.T) {
	shop := noopAction("shop", "", map[string][]string{
		"Chained":     {"/"},
		"CaptureArgs": {"1"},
	})
	item := noopAction("item", "", map[string][]string{
		"Chained": {"shop"},
		"Args":    {"1"},
	})
	d := buildDispatcher(t, Options{}, shop, item)

	c := newTestContext(d, "/shop/42/item/9")
	if !d.PrepareAction(c) || c.Action() != item {
		t.Fatal("exactly one trailing argument should match")
	}

	tests := []string{"/shop/42/item", "/shop/42/item/9/10"}
	for _, path := range tests {
		c := newTestContext(d, path)
		if d.PrepareAction(c) && c.Action() == item {
			t.Errorf("path %q should not satisfy the argument bound", path)
		}
	}
}

func TestChained_MidpointNeedsEnoughCaptures(t *testing.T) {
	shop, item := shopChain(nil)
	d := buildDispatcher(t, Options{}, shop, item)

	c := newTestContext(d, "/shop")
	if d.PrepareAction(c) {
		t.Errorf("a bare midpoint path resolved to %v", c.Action())
	}
}

func TestChained_PathPartOverride(t *testing.T) {
	root := noopAction("catalogroot", "", map[string][]string{
		"Chained":     {"/"},
		"PathPart":    {"catalog"},
		"CaptureArgs": {"0"},
	})
	show := noopAction("show", "", map[string][]string{
		"Chained": {"catalogroot"},
	})
	d := buildDispatcher(t, Options{}, root, show)

	c := newTestContext(d, "/catalog/show")
	if !d.PrepareAction(c) || c.Action() != show {
		t.Fatal("the overridden path part should route the chain")
	}

	uri, ok := d.URIForAction(show, nil)
	if !ok || uri != "catalog/show" {
		t.Errorf("uri = %q, %v; want catalog/show, true", uri, ok)
	}
}

func TestChained_URIRoundTrip(t *testing.T) {
	shop, item := shopChain(nil)
	d := buildDispatcher(t, Options{}, shop, item)

	uri, ok := d.URIForAction(item, []string{"42"})
	if !ok {
		t.Fatal("URIForAction should rebuild the chain path")
	}
	if uri != "shop/42/item" {
		t.Errorf("uri = %q, want shop/42/item", uri)
	}

	c := newTestContext(d, uri)
	if !d.PrepareAction(c) || c.Action() != item {
		t.Fatal("resolving the generated path should yield the endpoint")
	}
	if !reflect.DeepEqual(c.Request().Captures, []string{"42"}) {
		t.Errorf("captures = %v, want [42]", c.Request().Captures)
	}

	// only complete capture sets reverse
	if _, ok := d.URIForAction(item, nil); ok {
		t.Error("missing captures should fail")
	}
	// midpoints have no path of their own
	if _, ok := d.URIForAction(shop, []string{"42"}); ok {
		t.Error("a midpoint should not reverse")
	}
}

func TestChained_DanglingParent(t *testing.T) {
	orphan := noopAction("orphan", "", map[string][]string{
		"Chained": {"missing"},
	})
	d := buildDispatcher(t, Options{}, orphan)

	c := newTestContext(d, "/orphan")
	if d.PrepareAction(c) {
		t.Errorf("a dangling chain resolved to %v", c.Action())
	}
	if _, ok := d.URIForAction(orphan, nil); ok {
		t.Error("a dangling chain has no path")
	}
}

func TestChained_InvalidCaptureArgsRejected(t *testing.T) {
	bad := noopAction("bad", "", map[string][]string{
		"Chained":     {"/"},
		"CaptureArgs": {"lots"},
	})
	d := buildDispatcher(t, Options{}, bad)

	dt, ok := d.DispatchTypeByName("Chained")
	if !ok {
		t.Fatal("the Chained type should have lazily loaded")
	}
	if lines := dt.List(); len(lines) != 0 {
		t.Errorf("List() = %v, want no routes", lines)
	}
	c := newTestContext(d, "/bad/1")
	if d.PrepareAction(c) {
		t.Errorf("a rejected link resolved to %v", c.Action())
	}
}
