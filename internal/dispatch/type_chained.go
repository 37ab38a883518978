package dispatch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pangyre/catalyst-runtime/internal/common/logging"
)

// chainedType links actions into parent chains through the "Chained"
// attribute. Midpoints declare "CaptureArgs" and consume that many
// segments as captures; an action without "CaptureArgs" terminates a
// chain and takes the remaining segments as arguments (bounded by
// "Args" when present). Each link contributes its "PathPart", which
// defaults to the action name.
//
// Matching is attempted only against the full request path: a chain
// computes its own capture/argument split, so backward peeling does not
// apply to it.
type chainedType struct {
	d          *Dispatcher
	childrenOf map[string][]*chainLink
	links      map[string]*chainLink
}

type chainLink struct {
	action   *Action
	parent   string // "/" for a chain root, else the parent's private path
	pathPart string
	captures int // segments consumed as captures; -1 marks an endpoint
	args     int // endpoint argument bound; -1 is unbounded
}

func newChainedType(d *Dispatcher) DispatchType {
	return &chainedType{
		d:          d,
		childrenOf: make(map[string][]*chainLink),
		links:      make(map[string]*chainLink),
	}
}

func (t *chainedType) Name() string { return "Chained" }

func (t *chainedType) Register(a *Action) bool {
	parents, ok := a.Attributes["Chained"]
	if !ok || len(parents) == 0 {
		return false
	}

	parent := parents[0]
	switch {
	case parent == "/":
		// chain root
	case strings.HasPrefix(parent, "/"):
		parent = strings.Trim(parent, "/")
	default:
		parent = joinPath(a.Namespace, parent)
	}

	link := &chainLink{
		action:   a,
		parent:   parent,
		pathPart: a.Name,
		captures: -1,
		args:     -1,
	}
	if parts, ok := a.Attributes["PathPart"]; ok && len(parts) > 0 {
		link.pathPart = parts[0]
	}
	if caps, ok := a.Attributes["CaptureArgs"]; ok && len(caps) > 0 {
		n, err := strconv.Atoi(caps[0])
		if err != nil || n < 0 {
			t.d.log.Warn("skipping chained action with invalid CaptureArgs",
				logging.String("action", a.Reverse),
				logging.String("value", caps[0]))
			return false
		}
		link.captures = n
	}
	if args, ok := a.Attributes["Args"]; ok && len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n >= 0 {
			link.args = n
		}
	}

	t.childrenOf[link.parent] = append(t.childrenOf[link.parent], link)
	t.links[a.PrivatePath()] = link
	return true
}

func (t *chainedType) Match(c *Context, path string) bool {
	// A chain is only tried against the full path.
	if len(c.Request().Args) > 0 || path == "" {
		return false
	}

	result := t.recurseMatch("/", strings.Split(path, "/"))
	if result == nil {
		return false
	}

	endpoint := result.endpoint.action
	c.SetAction(endpoint)
	c.SetNamespace(endpoint.Namespace)
	c.Request().Match = path
	c.Request().Captures = result.captures

	args := make([]string, len(result.remaining))
	for i, arg := range result.remaining {
		args[i] = unescape(arg)
	}
	c.Request().Args = args
	return true
}

type chainMatch struct {
	endpoint  *chainLink
	captures  []string
	remaining []string
}

// recurseMatch walks the chains rooted at parent, consuming path parts
// and captures. The first complete chain in registration order wins.
func (t *chainedType) recurseMatch(parent string, parts []string) *chainMatch {
	for _, link := range t.childrenOf[parent] {
		rest, ok := consumePathPart(link.pathPart, parts)
		if !ok {
			continue
		}

		if link.captures >= 0 {
			if len(rest) < link.captures {
				continue
			}
			captured := rest[:link.captures]
			sub := t.recurseMatch(link.action.PrivatePath(), rest[link.captures:])
			if sub == nil {
				continue
			}
			sub.captures = append(append([]string{}, captured...), sub.captures...)
			return sub
		}

		// endpoint
		if link.args >= 0 && len(rest) != link.args {
			continue
		}
		return &chainMatch{endpoint: link, remaining: rest}
	}
	return nil
}

// consumePathPart strips a link's path part (possibly multi-segment)
// from the front of parts.
func consumePathPart(pathPart string, parts []string) ([]string, bool) {
	if pathPart == "" {
		return parts, true
	}
	want := strings.Split(pathPart, "/")
	if len(parts) < len(want) {
		return nil, false
	}
	for i, seg := range want {
		if parts[i] != seg {
			return nil, false
		}
	}
	return parts[len(want):], true
}

// ExpandAction materializes a chain endpoint into a composite action
// that executes every link root-first.
func (t *chainedType) ExpandAction(a *Action) *Action {
	link, ok := t.links[a.PrivatePath()]
	if !ok || link.action != a {
		return nil
	}

	chain, ok := t.chainFor(link)
	if !ok {
		return nil
	}

	expanded := *a
	expanded.Execute = func(c *Context) error {
		for _, l := range chain {
			if l.action.Execute == nil {
				continue
			}
			if err := l.action.Execute(c); err != nil {
				return err
			}
		}
		return nil
	}
	return &expanded
}

// chainFor collects the links from the chain root down to link. It
// reports false on a dangling or cyclic parent reference.
func (t *chainedType) chainFor(link *chainLink) ([]*chainLink, bool) {
	var chain []*chainLink
	seen := make(map[*chainLink]bool)
	for l := link; ; {
		if seen[l] {
			return nil, false
		}
		seen[l] = true
		chain = append([]*chainLink{l}, chain...)
		if l.parent == "/" {
			return chain, true
		}
		parent, ok := t.links[l.parent]
		if !ok {
			return nil, false
		}
		l = parent
	}
}

func (t *chainedType) URIForAction(a *Action, captures []string) (string, bool) {
	link, ok := t.links[a.PrivatePath()]
	if !ok || link.action != a || link.captures >= 0 {
		return "", false
	}

	chain, ok := t.chainFor(link)
	if !ok {
		return "", false
	}

	needed := 0
	for _, l := range chain {
		if l.captures > 0 {
			needed += l.captures
		}
	}
	if needed != len(captures) {
		return "", false
	}

	var parts []string
	next := 0
	for _, l := range chain {
		if l.pathPart != "" {
			parts = append(parts, strings.Split(l.pathPart, "/")...)
		}
		if l.captures > 0 {
			parts = append(parts, captures[next:next+l.captures]...)
			next += l.captures
		}
	}
	return strings.Join(parts, "/"), true
}

func (t *chainedType) List() []string {
	paths := make([]string, 0, len(t.links))
	for path := range t.links {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var lines []string
	for _, path := range paths {
		link := t.links[path]
		if link.captures >= 0 {
			continue
		}
		if chain, ok := t.chainFor(link); ok {
			var parts []string
			for _, l := range chain {
				part := "/" + l.pathPart
				if l.captures > 0 {
					part += fmt.Sprintf("/*(%d)", l.captures)
				}
				parts = append(parts, part)
			}
			lines = append(lines, fmt.Sprintf("%s => %s", strings.Join(parts, ""), path))
		}
	}
	return lines
}
