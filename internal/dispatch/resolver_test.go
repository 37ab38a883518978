package dispatch

import (
	"reflect"
	"testing"
)

func TestPrepareAction_LongestPrefixWins(t *testing.T) {
	index := noopAction("index", "", nil)
	bar := noopAction("bar", "foo", map[string][]string{"Path": {"bar"}})
	catchAll := noopAction("default", "foo", nil)
	d := buildDispatcher(t, Options{}, index, bar, catchAll)

	tests := []struct {
		name       string
		path       string
		wantAction *Action
		wantArgs   []string
		wantMatch  string
	}{
		{
			name:       "exact action with trailing args",
			path:       "/foo/bar/extra",
			wantAction: bar,
			wantArgs:   []string{"extra"},
			wantMatch:  "foo/bar",
		},
		{
			name:       "falls through to the namespace catch-all",
			path:       "/foo/baz",
			wantAction: catchAll,
			wantArgs:   []string{"baz"},
			wantMatch:  "foo",
		},
		{
			name:       "empty path resolves the root index",
			path:       "",
			wantAction: index,
			wantArgs:   nil,
			wantMatch:  "",
		},
		{
			name:       "slash-only path resolves the root index",
			path:       "/",
			wantAction: index,
			wantArgs:   nil,
			wantMatch:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(d, tt.path)
			if !d.PrepareAction(c) {
				t.Fatalf("PrepareAction(%q) did not resolve", tt.path)
			}
			if c.Action() != tt.wantAction {
				t.Errorf("resolved %v, want %v", c.Action().Reverse, tt.wantAction.Reverse)
			}
			if len(c.Request().Args) != len(tt.wantArgs) ||
				(len(tt.wantArgs) > 0 && !reflect.DeepEqual(c.Request().Args, tt.wantArgs)) {
				t.Errorf("args = %v, want %v", c.Request().Args, tt.wantArgs)
			}
			if c.Request().Match != tt.wantMatch {
				t.Errorf("match = %q, want %q", c.Request().Match, tt.wantMatch)
			}
			if c.Namespace() != tt.wantAction.Namespace {
				t.Errorf("namespace = %q, want %q", c.Namespace(), tt.wantAction.Namespace)
			}
		})
	}
}

func TestPrepareAction_DeeperPathBeatsShorter(t *testing.T) {
	shallow := noopAction("a", "", map[string][]string{"Path": {"a"}})
	deep := noopAction("b", "a", map[string][]string{"Path": {"b"}})
	d := buildDispatcher(t, Options{}, shallow, deep)

	c := newTestContext(d, "/a/b/c")
	if !d.PrepareAction(c) {
		t.Fatal("PrepareAction did not resolve")
	}
	if c.Action() != deep {
		t.Errorf("resolved %v, want the deeper action", c.Action().Reverse)
	}
	if !reflect.DeepEqual(c.Request().Args, []string{"c"}) {
		t.Errorf("args = %v, want [c]", c.Request().Args)
	}
}

func TestPrepareAction_NoMatch(t *testing.T) {
	d := buildDispatcher(t, Options{},
		noopAction("bar", "foo", map[string][]string{"Path": {"bar"}}),
	)

	c := newTestContext(d, "/does/not/exist")
	if d.PrepareAction(c) {
		t.Fatal("PrepareAction should fail for an unregistered path")
	}
	if c.Action() != nil {
		t.Errorf("no action should be bound, got %v", c.Action())
	}
}

func TestPrepareAction_DecodesPeeledArguments(t *testing.T) {
	greet := noopAction("greet", "", map[string][]string{"Path": {"greet"}})
	d := buildDispatcher(t, Options{}, greet)

	c := newTestContext(d, "/greet/hello%20world/a%2Fb")
	if !d.PrepareAction(c) {
		t.Fatal("PrepareAction did not resolve")
	}
	want := []string{"hello world", "a/b"}
	if !reflect.DeepEqual(c.Request().Args, want) {
		t.Errorf("args = %v, want %v", c.Request().Args, want)
	}
}

func TestPrepareAction_RegexCaptures(t *testing.T) {
	show := noopAction("show", "user", map[string][]string{"Regex": {`^user/(\d+)/show$`}})
	file := noopAction("fetch", "", map[string][]string{"Regex": {`^file/([^/]+)$`}})
	d := buildDispatcher(t, Options{}, show, file)

	c := newTestContext(d, "/user/42/show")
	if !d.PrepareAction(c) {
		t.Fatal("PrepareAction did not resolve the regex action")
	}
	if c.Action() != show {
		t.Errorf("resolved %v, want the regex action", c.Action().Reverse)
	}
	if !reflect.DeepEqual(c.Request().Captures, []string{"42"}) {
		t.Errorf("captures = %v, want [42]", c.Request().Captures)
	}

	// captured segments are percent-decoded exactly once
	c = newTestContext(d, "/file/a%2Fb")
	if !d.PrepareAction(c) {
		t.Fatal("PrepareAction did not resolve the encoded capture")
	}
	if !reflect.DeepEqual(c.Request().Captures, []string{"a/b"}) {
		t.Errorf("captures = %v, want [a/b]", c.Request().Captures)
	}
}

func TestPrepareAction_IndexRequiresNoArgs(t *testing.T) {
	index := noopAction("index", "admin", nil)
	fallback := noopAction("default", "admin", nil)
	d := buildDispatcher(t, Options{}, index, fallback)

	c := newTestContext(d, "/admin")
	if !d.PrepareAction(c) || c.Action() != index {
		t.Fatal("/admin should resolve to the index action")
	}

	// once a segment has been peeled the index no longer applies
	c = newTestContext(d, "/admin/other")
	if !d.PrepareAction(c) || c.Action() != fallback {
		t.Fatal("/admin/other should fall through to the catch-all")
	}
	if !reflect.DeepEqual(c.Request().Args, []string{"other"}) {
		t.Errorf("args = %v, want [other]", c.Request().Args)
	}
}

func TestPrepareAction_AbsolutePathAttribute(t *testing.T) {
	moved := noopAction("old", "deep/ns", map[string][]string{"Path": {"/top"}})
	d := buildDispatcher(t, Options{}, moved)

	c := newTestContext(d, "/top")
	if !d.PrepareAction(c) || c.Action() != moved {
		t.Fatal("an absolute Path attribute should register verbatim")
	}
	if c.Namespace() != "deep/ns" {
		t.Errorf("namespace = %q, want the action's own namespace", c.Namespace())
	}
}
