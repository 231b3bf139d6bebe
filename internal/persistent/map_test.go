package persistent

import (
	"sort"
	"testing"
)

type intKey int

func (k intKey) Hash() uint32 { return uint32(k) * 2654435761 }

// collidingKey forces every entry into the same collision bucket.
type collidingKey string

func (k collidingKey) Hash() uint32 { return 42 }

func TestPutGet(t *testing.T) {
	m := Empty[intKey, string]()
	for i := 0; i < 1000; i++ {
		m = m.Put(intKey(i), "v")
	}
	if m.Len() != 1000 {
		t.Fatalf("Len() = %d, want 1000", m.Len())
	}
	for i := 0; i < 1000; i++ {
		if _, ok := m.Get(intKey(i)); !ok {
			t.Fatalf("key %d missing", i)
		}
	}
	if _, ok := m.Get(intKey(1000)); ok {
		t.Errorf("key 1000 should be absent")
	}
}

func TestPersistence(t *testing.T) {
	base := Empty[intKey, int]().Put(1, 10)
	extended := base.Put(2, 20)
	updated := extended.Put(1, 11)

	if base.Contains(2) {
		t.Errorf("base map was mutated by Put")
	}
	if v, _ := extended.Get(1); v != 10 {
		t.Errorf("extended[1] = %d, want 10", v)
	}
	if v, _ := updated.Get(1); v != 11 {
		t.Errorf("updated[1] = %d, want 11", v)
	}
	if updated.Len() != 2 {
		t.Errorf("updated.Len() = %d, want 2", updated.Len())
	}
}

func TestRemove(t *testing.T) {
	m := Empty[intKey, int]()
	for i := 0; i < 100; i++ {
		m = m.Put(intKey(i), i)
	}
	removed := m
	for i := 0; i < 100; i += 2 {
		removed = removed.Remove(intKey(i))
	}
	if removed.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", removed.Len())
	}
	for i := 0; i < 100; i++ {
		_, ok := removed.Get(intKey(i))
		if ok != (i%2 == 1) {
			t.Errorf("Get(%d) present = %v", i, ok)
		}
	}
	if m.Len() != 100 {
		t.Errorf("original map was mutated by Remove")
	}
	if same := m.Remove(intKey(500)); same != m {
		t.Errorf("removing a missing key should return the same map")
	}
}

func TestCollisions(t *testing.T) {
	m := Empty[collidingKey, int]()
	names := []string{"a", "b", "c", "d"}
	for i, n := range names {
		m = m.Put(collidingKey(n), i)
	}
	for i, n := range names {
		if v, ok := m.Get(collidingKey(n)); !ok || v != i {
			t.Errorf("Get(%s) = %d, %v, want %d, true", n, v, ok, i)
		}
	}
	m = m.Remove("b")
	if m.Contains("b") || m.Len() != 3 {
		t.Errorf("Remove in collision bucket failed: len %d", m.Len())
	}

	keys := m.Keys()
	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = string(k)
	}
	sort.Strings(got)
	if len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "d" {
		t.Errorf("Keys() = %v, want [a c d]", got)
	}
}
