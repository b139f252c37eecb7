package graph

import (
	"slices"
	"testing"
)

func TestRegistryRegisterResolve(t *testing.T) {
	var r Registry[string]

	a := r.Register("a")
	b := r.Register("b")
	if a != 0 || b != 1 {
		t.Fatalf("indices = %d, %d, want 0, 1", a, b)
	}

	if v, ok := r.Resolve(1); !ok || v != "b" {
		t.Errorf("Resolve(1) = %q, %v, want b, true", v, ok)
	}
	for _, idx := range []int{-1, 2, 100} {
		if _, ok := r.Resolve(idx); ok {
			t.Errorf("Resolve(%d) should fail", idx)
		}
	}
}

func TestRegistryGapsAreStable(t *testing.T) {
	var r Registry[string]
	for _, v := range []string{"a", "b", "c", "d"} {
		r.Register(v)
	}

	if !r.Unregister(1) {
		t.Fatal("Unregister(1) = false, want true")
	}
	if r.Unregister(1) {
		t.Error("second Unregister(1) should report false")
	}

	if got := r.Indices(); !slices.Equal(got, []int{0, 2, 3}) {
		t.Errorf("Indices() = %v, want [0 2 3]", got)
	}
	if v, ok := r.Resolve(3); !ok || v != "d" {
		t.Errorf("survivor renumbered: Resolve(3) = %q, %v", v, ok)
	}
	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestRegistryNeverReusesIndices(t *testing.T) {
	var r Registry[int]
	first := r.Register(10)
	r.Unregister(first)

	second := r.Register(20)
	if second == first {
		t.Errorf("index %d was reused", first)
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", r.Len())
	}
	if _, ok := r.Resolve(second); ok {
		t.Error("index from before Clear still resolves")
	}

	third := r.Register(30)
	if third <= second {
		t.Errorf("index after Clear = %d, want > %d", third, second)
	}
	if r.Next() != third+1 {
		t.Errorf("Next() = %d, want %d", r.Next(), third+1)
	}
}

func TestRegistryValuesOrder(t *testing.T) {
	var r Registry[string]
	r.Register("x")
	r.Register("y")
	r.Register("z")
	r.Unregister(0)

	if got := r.Values(); !slices.Equal(got, []string{"y", "z"}) {
		t.Errorf("Values() = %v, want [y z]", got)
	}
}
