package dispatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pangyre/catalyst-runtime/internal/common/logging"
)

// regexType matches patterns declared through the "Regex" attribute.
// Patterns are compiled once at registration, anchored to the whole
// candidate path, and tried in registration order; capture groups are
// bound onto the request.
type regexType struct {
	d       *Dispatcher
	entries []*regexEntry
}

type regexEntry struct {
	pattern  string
	compiled *regexp.Regexp
	action   *Action
}

func newRegexType(d *Dispatcher) DispatchType {
	return &regexType{d: d}
}

func (t *regexType) Name() string { return "Regex" }

func (t *regexType) Match(c *Context, path string) bool {
	for _, e := range t.entries {
		m := e.compiled.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		c.SetAction(e.action)
		c.SetNamespace(e.action.Namespace)
		c.Request().Match = path
		c.Request().Captures = m[1:]
		return true
	}
	return false
}

func (t *regexType) Register(a *Action) bool {
	values, ok := a.Attributes["Regex"]
	if !ok {
		return false
	}
	registered := false
	for _, pattern := range values {
		compiled, err := regexp.Compile(anchorPattern(pattern))
		if err != nil {
			t.d.log.Warn("skipping invalid regex pattern",
				logging.String("pattern", pattern),
				logging.String("action", a.Reverse),
				logging.Err(err))
			continue
		}
		t.entries = append(t.entries, &regexEntry{
			pattern:  pattern,
			compiled: compiled,
			action:   a,
		})
		registered = true
	}
	return registered
}

// URIForAction reverses a pattern by splicing the captures into its
// literal skeleton. Patterns with metacharacters outside capture groups
// are not reversible.
func (t *regexType) URIForAction(a *Action, captures []string) (string, bool) {
	for _, e := range t.entries {
		if e.action != a {
			continue
		}
		if uri, ok := reversePattern(e.pattern, captures); ok {
			return uri, true
		}
	}
	return "", false
}

func (t *regexType) ExpandAction(a *Action) *Action { return nil }

func (t *regexType) List() []string {
	lines := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		lines = append(lines, fmt.Sprintf("%s => %s", e.pattern, e.action.Reverse))
	}
	return lines
}

// anchorPattern pins a pattern to the whole candidate path.
func anchorPattern(pattern string) string {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern = pattern + "$"
	}
	return pattern
}

// reversePattern rebuilds the path a pattern would match, substituting
// one capture per top-level group. It refuses patterns whose skeleton
// is not purely literal.
func reversePattern(pattern string, captures []string) (string, bool) {
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")

	var out strings.Builder
	next := 0
	runes := []rune(pattern)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '\\':
			if i+1 >= len(runes) {
				return "", false
			}
			i++
			out.WriteRune(runes[i])
		case '(':
			end, ok := matchingParen(runes, i)
			if !ok || next >= len(captures) {
				return "", false
			}
			out.WriteString(captures[next])
			next++
			i = end
		case '.', '*', '+', '?', '[', ']', '{', '}', '|', ')', '^', '$':
			return "", false
		default:
			out.WriteRune(r)
		}
	}

	if next != len(captures) {
		return "", false
	}
	return out.String(), true
}

// matchingParen finds the index of the parenthesis closing the group
// opened at start.
func matchingParen(runes []rune, start int) (int, bool) {
	depth := 0
	for i := start; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
