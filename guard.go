// Package main - guard.go
//
// This file implements the cooldown-gated potion policy.
//
// Each tick the guard compares every gauge's fill percentage against its
// threshold. A gauge below threshold fires its potion key, but only if the
// per-gauge cooldown has elapsed since the last fire. Resources are fully
// independent: one gauge crossing its threshold never blocks or delays
// another.
package main

import (
	"time"
)

// ResourceGuard owns the gauges' cooldown timestamps and use counters.
// Mutated only on the automation goroutine; the UI reads copies through
// UsesSnapshot.
type ResourceGuard struct {
	gauges   []*Gauge
	injector InputInjector
}

// NewResourceGuard creates a guard over the given gauges
func NewResourceGuard(gauges []*Gauge, injector InputInjector) *ResourceGuard {
	return &ResourceGuard{
		gauges:   gauges,
		injector: injector,
	}
}

// Tick evaluates every gauge against the current percentages and fires the
// potions whose thresholds and cooldowns allow it. Returns the resources
// that fired this tick.
//
// Injection failures are logged and the gauge still consumes its cooldown,
// so a flaky key press cannot turn into a rapid-fire retry loop.
func (g *ResourceGuard) Tick(now time.Time, percents map[ResourceKind]float64) []ResourceKind {
	var fired []ResourceKind
	for _, gauge := range g.gauges {
		percent, sampled := percents[gauge.Kind]
		if !sampled {
			continue
		}
		if percent >= gauge.Threshold {
			continue
		}
		if !gauge.LastUsedAt.IsZero() && now.Sub(gauge.LastUsedAt) < gauge.Cooldown {
			continue
		}

		if err := g.injector.PressKey(gauge.PotionKey); err != nil {
			LogWarn("Potion key %q for %s failed: %v", gauge.PotionKey, gauge.Kind,
				classifyTickError(ErrKindInjection, err))
		} else {
			LogInfo("Potion fired: %s at %.1f%% (threshold %.0f%%)",
				gauge.Kind, percent, gauge.Threshold)
		}
		gauge.LastUsedAt = now
		gauge.UsesCount++
		fired = append(fired, gauge.Kind)
	}
	return fired
}

// UsesSnapshot returns a copy of the per-resource use counters
func (g *ResourceGuard) UsesSnapshot() map[ResourceKind]uint64 {
	uses := make(map[ResourceKind]uint64, len(g.gauges))
	for _, gauge := range g.gauges {
		uses[gauge.Kind] = gauge.UsesCount
	}
	return uses
}

// Reset restores all gauges' runtime counters to defaults
func (g *ResourceGuard) Reset() {
	for _, gauge := range g.gauges {
		gauge.LastUsedAt = time.Time{}
		gauge.UsesCount = 0
	}
}
