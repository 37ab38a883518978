package dispatch

import (
	"context"
	"io"
	"testing"

	"github.com/pangyre/catalyst-runtime/internal/common/logging"
)

// Shared test helpers for the dispatch package.

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
	if err != nil {
		t.Fatalf("NewZapLogger() error = %v", err)
	}
	return logger
}

// buildDispatcher registers the given actions through a component hook
// and completes setup, so preload types see them in the normal order.
func buildDispatcher(t *testing.T, opts Options, actions ...*Action) *Dispatcher {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger(t)
	}
	d := New(opts)
	d.RegisterComponent("test", RegistrarFunc(func(d *Dispatcher) error {
		for _, a := range actions {
			if err := d.Register(a); err != nil {
				return err
			}
		}
		return nil
	}))
	if err := d.SetupActions(); err != nil {
		t.Fatalf("SetupActions() error = %v", err)
	}
	return d
}

func newTestContext(d *Dispatcher, path string) *Context {
	return NewContext(context.Background(), d, NewRequest(path))
}

// noopAction builds an action whose body does nothing.
func noopAction(name, namespace string, attrs map[string][]string) *Action {
	return NewAction(name, namespace, "Test", func(*Context) error { return nil }, attrs)
}

// recordAction builds an action that appends its private path to log
// when executed.
func recordAction(name, namespace string, attrs map[string][]string, log *[]string) *Action {
	a := NewAction(name, namespace, "Test", nil, attrs)
	a.Execute = func(*Context) error {
		*log = append(*log, a.PrivatePath())
		return nil
	}
	return a
}
