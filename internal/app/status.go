package app

import (
	"fmt"

	"github.com/pangyre/catalyst-runtime/internal/dispatch"
)

// Status serves a plain-text diagnostics page listing the loaded
// dispatch types and the routes each one knows.
type Status struct{}

// NewStatus creates the diagnostics component.
func NewStatus() *Status {
	return &Status{}
}

// RegisterActions implements dispatch.ActionRegistrar.
func (s *Status) RegisterActions(d *dispatch.Dispatcher) error {
	return d.Register(dispatch.NewAction("index", "status", "Status", s.Index, nil))
}

func (s *Status) Index(c *dispatch.Context) error {
	body := &c.Response().Body
	for _, t := range c.Dispatcher().Types() {
		fmt.Fprintf(body, "[%s]\n", t.Name())
		for _, line := range t.List() {
			fmt.Fprintf(body, "  %s\n", line)
		}
	}
	return nil
}
