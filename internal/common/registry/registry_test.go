package registry

import (
	"sort"
	"testing"

	"github.com/pangyre/catalyst-runtime/internal/common/errors"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := New[int]()
	reg.Register("one", 1)
	reg.Register("two", 2)

	got, err := reg.Get("one")
	if err != nil {
		t.Fatalf("Get(one) error = %v", err)
	}
	if got != 1 {
		t.Errorf("Get(one) = %d, want 1", got)
	}

	// Re-registering replaces
	reg.Register("one", 11)
	got, _ = reg.Get("one")
	if got != 11 {
		t.Errorf("Get(one) after replace = %d, want 11", got)
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := New[string]()

	_, err := reg.Get("absent")
	if err == nil {
		t.Fatal("Get(absent) should return an error")
	}
	if !errors.IsType(err, errors.ErrTypeNotFound) {
		t.Errorf("Get(absent) error type = %v, want not_found", errors.GetType(err))
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := New[struct{}]()
	reg.Register("b", struct{}{})
	reg.Register("a", struct{}{})

	names := reg.Names()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}

	if !reg.IsRegistered("a") {
		t.Error("IsRegistered(a) = false, want true")
	}
	if reg.IsRegistered("c") {
		t.Error("IsRegistered(c) = true, want false")
	}
	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}
}
