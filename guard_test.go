package main

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeInjector records delivered input for assertions
type fakeInjector struct {
	mu          sync.Mutex
	keys        []string
	rightClicks int
	moves       []Point
	failKeys    map[string]bool
}

func (f *fakeInjector) PressKey(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return fmt.Errorf("key %q rejected", key)
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeInjector) RightClick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rightClicks++
}

func (f *fakeInjector) MoveMouse(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, Point{X: x, Y: y})
}

func (f *fakeInjector) keyCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, k := range f.keys {
		if k == key {
			n++
		}
	}
	return n
}

func (f *fakeInjector) clickCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rightClicks
}

func testGauges() []*Gauge {
	return DefaultSettings().Gauges()
}

func TestGuardFiresBelowThreshold(t *testing.T) {
	injector := &fakeInjector{}
	guard := NewResourceGuard(testGauges(), injector)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	fired := guard.Tick(now, map[ResourceKind]float64{
		ResourceHealth:  40, // below 50
		ResourceMana:    80, // above 30
		ResourceStamina: 90, // above 40
	})

	if len(fired) != 1 || fired[0] != ResourceHealth {
		t.Fatalf("fired = %v, want [Health]", fired)
	}
	if got := injector.keyCount("1"); got != 1 {
		t.Fatalf("health potion key pressed %d times, want 1", got)
	}
}

func TestGuardCooldown(t *testing.T) {
	injector := &fakeInjector{}
	guard := NewResourceGuard(testGauges(), injector)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	low := map[ResourceKind]float64{ResourceHealth: 10}

	// Two ticks inside the cooldown fire exactly once
	guard.Tick(now, low)
	guard.Tick(now.Add(time.Second), low)
	if got := injector.keyCount("1"); got != 1 {
		t.Fatalf("pressed %d times within cooldown, want 1", got)
	}

	// After the cooldown the guard fires again
	guard.Tick(now.Add(3*time.Second), low)
	if got := injector.keyCount("1"); got != 2 {
		t.Fatalf("pressed %d times after cooldown, want 2", got)
	}
}

func TestGuardCooldownSequence(t *testing.T) {
	injector := &fakeInjector{}
	guard := NewResourceGuard(testGauges(), injector)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	low := map[ResourceKind]float64{ResourceMana: 5}

	// Ticking every 0.5s for 10s with a 3s cooldown fires at
	// t=0, 3, 6, 9: four times, no matter how low the percent stays
	for i := 0; i <= 20; i++ {
		guard.Tick(start.Add(time.Duration(i)*500*time.Millisecond), low)
	}
	if got := injector.keyCount("2"); got != 4 {
		t.Fatalf("pressed %d times over 10s, want 4", got)
	}
}

func TestGuardResourcesIndependent(t *testing.T) {
	injector := &fakeInjector{}
	guard := NewResourceGuard(testGauges(), injector)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// One resource on cooldown never blocks another
	guard.Tick(now, map[ResourceKind]float64{ResourceHealth: 10})
	fired := guard.Tick(now.Add(time.Second), map[ResourceKind]float64{
		ResourceHealth:  10, // still cooling down
		ResourceStamina: 10, // fresh
	})

	if len(fired) != 1 || fired[0] != ResourceStamina {
		t.Fatalf("fired = %v, want [Stamina]", fired)
	}
}

func TestGuardInjectionFailureConsumesCooldown(t *testing.T) {
	injector := &fakeInjector{failKeys: map[string]bool{"1": true}}
	guard := NewResourceGuard(testGauges(), injector)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	low := map[ResourceKind]float64{ResourceHealth: 10}

	// A failed press still consumes the cooldown, preventing a
	// rapid-fire retry loop
	guard.Tick(now, low)
	fired := guard.Tick(now.Add(time.Second), low)
	if len(fired) != 0 {
		t.Fatalf("fired = %v within cooldown after failed press, want none", fired)
	}
}

func TestGuardUsesSnapshotAndReset(t *testing.T) {
	injector := &fakeInjector{}
	gauges := testGauges()
	guard := NewResourceGuard(gauges, injector)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	guard.Tick(now, map[ResourceKind]float64{ResourceHealth: 10, ResourceMana: 5})
	uses := guard.UsesSnapshot()
	if uses[ResourceHealth] != 1 || uses[ResourceMana] != 1 || uses[ResourceStamina] != 0 {
		t.Fatalf("uses snapshot = %v, want Health=1 Mana=1 Stamina=0", uses)
	}

	guard.Reset()
	uses = guard.UsesSnapshot()
	for kind, count := range uses {
		if count != 0 {
			t.Fatalf("%s uses = %d after reset, want 0", kind, count)
		}
	}
	if !gauges[0].LastUsedAt.IsZero() {
		t.Fatal("LastUsedAt not cleared by reset")
	}
}
