// Package main - data.go
//
// This file defines the core data types shared across the bot: screen
// geometry, resource gauges, movement profiles, runtime statistics, and
// the read-only status snapshot exposed to the UI.
//
// Ownership Model:
// All mutable state (gauge cooldown timestamps, use counters, hunt round
// state) is owned exclusively by the background automation goroutine.
// External readers (tray UI) receive value snapshots via Bot.Status(),
// never references, so no reader ever observes a partially updated state.
package main

import (
	"sync"
	"time"
)

// Point represents a screen coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect represents a screen region in absolute screen coordinates
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// IsZero reports whether the region has not been configured
func (r Rect) IsZero() bool {
	return r.W <= 0 || r.H <= 0
}

// Center returns the center point of the region
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ResourceKind identifies a gauge resource type
type ResourceKind int

const (
	ResourceHealth ResourceKind = iota
	ResourceMana
	ResourceStamina
)

// String returns the display name of the resource
func (k ResourceKind) String() string {
	switch k {
	case ResourceHealth:
		return "Health"
	case ResourceMana:
		return "Mana"
	case ResourceStamina:
		return "Stamina"
	default:
		return "Unknown"
	}
}

// Gauge holds the configuration and runtime state for one resource bar.
//
// Region, Threshold, PotionKey and Cooldown are configuration, read-only
// during a run. LastUsedAt and UsesCount are mutated only by ResourceGuard
// on the automation goroutine; the UI reads copies via Bot.Status().
type Gauge struct {
	Kind       ResourceKind
	Region     Rect
	Threshold  float64
	PotionKey  string
	Cooldown   time.Duration
	LastUsedAt time.Time
	UsesCount  uint64
}

// MovementProfile holds the per-round traversal constants for the hunt.
// One entry per round 1-4, read-only configuration data.
type MovementProfile struct {
	RightDuration  float64 `json:"rightDuration"`  // seconds moving right
	LeftDuration   float64 `json:"leftDuration"`   // seconds repositioning left
	ForwardPresses int     `json:"forwardPresses"` // forward taps on phase entry
}

// Mode identifies which automation loop is active
type Mode int

const (
	ModeIdle Mode = iota
	ModePotion
	ModeHunt
)

// String returns the display name of the mode
func (m Mode) String() string {
	switch m {
	case ModePotion:
		return "Potion"
	case ModeHunt:
		return "Hunt"
	default:
		return "Idle"
	}
}

// Status is the read-only snapshot of the bot's current state.
// Safe for concurrent polling; every field is a value copy.
type Status struct {
	Running      bool
	Mode         Mode
	CurrentRound int
	CurrentPhase string
	PotionUses   map[ResourceKind]uint64
	SpellsCast   uint64
	RoundsDone   int
	Elapsed      time.Duration
}

// Statistics tracks session counters for display and reporting.
// Thread-safe; written by the worker, read by the tray UI.
type Statistics struct {
	mu         sync.Mutex
	startTime  time.Time
	spellsCast uint64
	roundsDone int
}

// NewStatistics creates a statistics tracker starting now
func NewStatistics() *Statistics {
	return &Statistics{startTime: time.Now()}
}

// AddSpellCast increments the spells-cast counter
func (s *Statistics) AddSpellCast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spellsCast++
}

// AddRoundCompleted increments the hunt rounds counter
func (s *Statistics) AddRoundCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundsDone++
}

// Reset restores all counters to zero and restarts the uptime clock
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = time.Now()
	s.spellsCast = 0
	s.roundsDone = 0
}

// GetStats returns spells cast, rounds completed, and formatted uptime
func (s *Statistics) GetStats() (uint64, int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spellsCast, s.roundsDone, FormatDuration(time.Since(s.startTime))
}
