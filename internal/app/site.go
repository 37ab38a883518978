package app

import (
	"fmt"
	"net/http"

	"github.com/pangyre/catalyst-runtime/internal/dispatch"
)

// Site is the built-in demo component. Its actions show the resolution
// strategies working together: the root index, a literal path, a
// pattern with a capture, a private render target reached only by
// forwarding, and a catch-all.
type Site struct {
	pages map[string]string
}

// NewSite creates the demo site with a couple of canned pages.
func NewSite() *Site {
	return &Site{
		pages: map[string]string{
			"about":   "About this server.",
			"contact": "catalyst@example.com",
		},
	}
}

// RegisterActions implements dispatch.ActionRegistrar.
func (s *Site) RegisterActions(d *dispatch.Dispatcher) error {
	actions := []*dispatch.Action{
		dispatch.NewAction("index", "", "Site", s.Index, nil),
		dispatch.NewAction("hello", "", "Site", s.Hello, map[string][]string{
			"Path": {"hello"},
		}),
		dispatch.NewAction("view", "page", "Site", s.View, map[string][]string{
			"Regex": {`^page/([^/]+)$`},
		}),
		dispatch.NewAction("render", "page", "Site", s.Render, map[string][]string{
			"Private": nil,
		}),
		dispatch.NewAction("default", "page", "Site", s.NotFound, nil),
	}
	for _, a := range actions {
		if err := d.Register(a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) Index(c *dispatch.Context) error {
	c.Response().Body.WriteString("catalyst dispatch server\n")
	return nil
}

func (s *Site) Hello(c *dispatch.Context) error {
	name := "world"
	if args := c.Request().Args; len(args) > 0 {
		name = args[0]
	}
	fmt.Fprintf(&c.Response().Body, "hello, %s\n", name)
	return nil
}

// View resolves the captured page name and forwards to the private
// renderer. An unknown page detaches into the catch-all.
func (s *Site) View(c *dispatch.Context) error {
	name := c.Request().Captures[0]
	body, ok := s.pages[name]
	if !ok {
		c.Detach("default")
	}
	c.Stash()["page.title"] = name
	c.Stash()["page.body"] = body
	c.Forward("render")
	return nil
}

func (s *Site) Render(c *dispatch.Context) error {
	fmt.Fprintf(&c.Response().Body, "# %s\n\n%s\n",
		c.Stash()["page.title"], c.Stash()["page.body"])
	return nil
}

func (s *Site) NotFound(c *dispatch.Context) error {
	c.Response().Status = http.StatusNotFound
	c.Response().Body.WriteString("no such page\n")
	return nil
}
