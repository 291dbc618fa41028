// Package main - loop.go
//
// This file implements the Bot controller: the outer scheduling shell that
// owns the background automation worker and the start/stop/status surface.
//
// Concurrency Model:
// Exactly one worker goroutine runs at a time, executing either the simple
// potion/spell loop or the hunt automaton loop; starting one while the other
// is active is rejected. The worker owns all mutable automation state and
// publishes a value snapshot under the status mutex each tick, which the
// tray UI polls via Status(). Cancellation is cooperative: Stop() closes the
// quit channel and joins the worker with a 1s timeout, abandoning it on
// expiry (every operation in the loop is short, so the worker always exits
// shortly after).
//
// Error Policy:
// Each tick runs under a recover boundary. Perception failures fall back to
// safe values, injection failures are logged where they happen, and anything
// unexpected (including panics) is logged with its classification, then the
// loop sleeps 1s and retries the current phase. Only Stop() or hunt
// completion ends the worker.
package main

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// huntTickInterval is the hunt loop's step rate. Movement press cadences in
// the automaton are expressed in ticks of this size.
const huntTickInterval = 100 * time.Millisecond

// tickRetryDelay is how long the loop waits before retrying a failed tick
const tickRetryDelay = time.Second

// Bot orchestrates perception, decisions, and input injection
type Bot struct {
	settings  *Settings
	capture   ScreenCapture
	injector  InputInjector
	sampler   *GaugeSampler
	targeting *TargetingSampler
	stats     *Statistics

	mu       sync.Mutex
	running  bool
	stopping bool // quit already closed for this run
	mode     Mode
	quit     chan struct{}
	done     chan struct{}

	// worker-owned, rebuilt on every start
	gauges []*Gauge
	guard  *ResourceGuard
	hunt   *HuntAutomaton

	// snapshot fields published under mu for Status()
	startedAt   time.Time
	statusRound int
	statusPhase string
	potionUses  map[ResourceKind]uint64

	// potion-mode state
	lastLogged map[ResourceKind]float64
	lastCastAt time.Time
}

// NewBot creates a bot over the given collaborators
func NewBot(settings *Settings, capture ScreenCapture, injector InputInjector) *Bot {
	return &Bot{
		settings:  settings,
		capture:   capture,
		injector:  injector,
		sampler:   NewGaugeSampler(),
		targeting: NewTargetingSampler(time.Now().UnixNano()),
		stats:     NewStatistics(),
	}
}

// Start launches the potion/spell loop on the background worker
func (b *Bot) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}

	b.beginRunLocked(ModePotion)
	done := b.done
	LogInfo("Potion loop starting (scan interval %.1fs)", b.settings.ScanInterval)

	SafeGo(func() {
		defer close(done)
		b.runPotionLoop()
	})
	return nil
}

// StartHunt launches the hunt automaton on the background worker.
// Fails without spawning the worker when the skill-bar region is not
// configured.
func (b *Bot) StartHunt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}

	detector := NewStabilityDetector(DefaultStabilityConfig())
	hunt, err := NewHuntAutomaton(b.settings, b.capture, b.injector, detector, b.stats)
	if err != nil {
		LogError("Hunt start rejected: %v", err)
		return err
	}

	b.beginRunLocked(ModeHunt)
	b.hunt = hunt
	b.statusRound = hunt.Round()
	b.statusPhase = hunt.Phase().String()
	done := b.done
	LogInfo("Hunt loop starting")

	SafeGo(func() {
		defer close(done)
		b.runHuntLoop()
	})
	return nil
}

// beginRunLocked resets per-run state. Caller holds b.mu.
func (b *Bot) beginRunLocked(mode Mode) {
	b.gauges = b.settings.Gauges()
	b.guard = NewResourceGuard(b.gauges, b.injector)
	b.hunt = nil
	b.running = true
	b.stopping = false
	b.mode = mode
	b.quit = make(chan struct{})
	b.done = make(chan struct{})
	b.startedAt = time.Now()
	b.statusRound = 0
	b.statusPhase = ""
	b.potionUses = nil
	b.lastLogged = nil
	b.lastCastAt = time.Time{}
}

// Stop signals the worker and joins it with a bounded timeout. Concurrent
// Stop calls for the same run all join the worker; only the first closes
// the quit channel.
func (b *Bot) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return ErrNotRunning
	}
	quit := b.quit
	done := b.done
	alreadyStopping := b.stopping
	b.stopping = true
	b.mu.Unlock()

	if !alreadyStopping {
		close(quit)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		LogWarn("Worker did not exit within 1s, abandoning")
	}
	return nil
}

// Status returns a read-only snapshot of the bot's state,
// safe for concurrent polling
func (b *Bot) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	uses := make(map[ResourceKind]uint64, len(b.potionUses))
	for k, v := range b.potionUses {
		uses[k] = v
	}
	spells, rounds, _ := b.stats.GetStats()

	st := Status{
		Running:      b.running,
		Mode:         b.mode,
		CurrentRound: b.statusRound,
		CurrentPhase: b.statusPhase,
		PotionUses:   uses,
		SpellsCast:   spells,
		RoundsDone:   rounds,
	}
	if b.running {
		st.Elapsed = time.Since(b.startedAt)
	}
	return st
}

// SetThreshold updates one resource's potion trigger threshold.
// Configuration is read-only during a run, so changes are rejected while
// a worker is active; the check and the write share the status mutex.
func (b *Bot) SetThreshold(kind ResourceKind, value float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}
	switch kind {
	case ResourceHealth:
		b.settings.Thresholds.Health = value
	case ResourceMana:
		b.settings.Thresholds.Mana = value
	case ResourceStamina:
		b.settings.Thresholds.Stamina = value
	}
	LogInfo("%s threshold set to %.0f%%", kind, value)
	return nil
}

// SetSpellEnabled toggles periodic spellcasting. Rejected while a worker
// is active, like every configuration change.
func (b *Bot) SetSpellEnabled(enabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}
	b.settings.Spell.Enabled = enabled
	LogInfo("Spellcasting enabled: %v", enabled)
	return nil
}

// ResetStats restores session counters to defaults. Gauge counters are only
// cleared while idle, since a running worker owns them.
func (b *Bot) ResetStats() {
	b.stats.Reset()
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running && b.guard != nil {
		b.guard.Reset()
	}
	b.potionUses = nil
	LogInfo("Statistics reset")
}

// runPotionLoop is the simple potion/spell automaton
func (b *Bot) runPotionLoop() {
	scanInterval := seconds(b.settings.ScanInterval)
	for {
		select {
		case <-b.quit:
			b.finishRun()
			return
		default:
		}

		if err := b.safeTick(b.tickPotion); err != nil {
			LogError("Potion loop tick failed: %v", err)
			if b.waitOrQuit(tickRetryDelay) {
				b.finishRun()
				return
			}
			continue
		}

		if b.waitOrQuit(scanInterval) {
			b.finishRun()
			return
		}
	}
}

// runHuntLoop drives the hunt automaton until it finishes or Stop is called
func (b *Bot) runHuntLoop() {
	for {
		select {
		case <-b.quit:
			b.finishRun()
			return
		default:
		}

		if err := b.safeTick(b.tickHunt); err != nil {
			LogError("Hunt loop tick failed: %v", err)
			if b.waitOrQuit(tickRetryDelay) {
				b.finishRun()
				return
			}
			continue
		}

		if b.hunt.Finished() {
			b.finishRun()
			return
		}

		if b.waitOrQuit(huntTickInterval) {
			b.finishRun()
			return
		}
	}
}

// safeTick runs one tick under a recover boundary so a panic becomes a
// classified, retryable error instead of killing the worker
func (b *Bot) safeTick(tick func(now time.Time) error) (err error) {
	timer := NewTimer("tick")
	defer timer.Stop()
	defer func() {
		if r := recover(); r != nil {
			err = classifyTickError(ErrKindUnexpected, fmt.Errorf("panic in tick: %v", r))
		}
	}()
	return tick(time.Now())
}

// tickPotion samples the gauges, runs the guard, and casts the periodic
// spell when enabled
func (b *Bot) tickPotion(now time.Time) error {
	percents := b.sampleGauges()
	b.logGaugeChanges(percents)
	b.guard.Tick(now, percents)

	if b.settings.Spell.Enabled &&
		(b.lastCastAt.IsZero() || now.Sub(b.lastCastAt) >= seconds(b.settings.Spell.Interval)) {
		b.castSpell()
		b.lastCastAt = now
	}

	b.publishSnapshot()
	return nil
}

// tickHunt runs the guard then advances the hunt automaton by one step.
// The guard ticks in every phase so potion use is never suppressed by the
// movement/attack choreography.
func (b *Bot) tickHunt(now time.Time) error {
	percents := b.sampleGauges()
	b.logGaugeChanges(percents)
	b.guard.Tick(now, percents)

	err := b.hunt.Tick(now)
	b.publishSnapshot()
	return err
}

// sampleGauges measures every configured gauge; unconfigured gauges read as
// full, consistent with the perception fail-safe
func (b *Bot) sampleGauges() map[ResourceKind]float64 {
	percents := make(map[ResourceKind]float64, len(b.gauges))
	for _, gauge := range b.gauges {
		if gauge.Region.IsZero() {
			percents[gauge.Kind] = 100
			continue
		}
		img, err := b.capture.Grab(gauge.Region)
		if err != nil {
			LogDebug("Gauge %s: capture failed (%v), fail-safe 100%%", gauge.Kind, err)
			percents[gauge.Kind] = 100
			continue
		}
		percents[gauge.Kind] = b.sampler.Measure(img, gauge.Kind)
	}
	return percents
}

// logGaugeChanges reports readings only when one moved at least half a
// percent since the last report, keeping the log readable at tick rate
func (b *Bot) logGaugeChanges(percents map[ResourceKind]float64) {
	changed := b.lastLogged == nil
	for kind, p := range percents {
		if !changed && math.Abs(p-b.lastLogged[kind]) >= 0.5 {
			changed = true
		}
	}
	if !changed {
		return
	}
	LogDebug("Gauges: HP %.1f%% MP %.1f%% SP %.1f%%",
		percents[ResourceHealth], percents[ResourceMana], percents[ResourceStamina])
	b.lastLogged = percents
}

// castSpell presses the spell key and right-clicks. The click lands at a
// random disk offset around the game window center when the window rect is
// configured, otherwise at the current cursor position.
func (b *Bot) castSpell() {
	if err := b.injector.PressKey(b.settings.Spell.Key); err != nil {
		LogWarn("Spell key %q failed: %v", b.settings.Spell.Key,
			classifyTickError(ErrKindInjection, err))
		return
	}

	if window := b.settings.Regions.GameWindow; !window.IsZero() {
		center := window.Center()
		dx, dy := b.targeting.NextOffset(b.settings.TargetRadius)
		b.injector.MoveMouse(center.X+int(dx), center.Y+int(dy))
	} else {
		LogDebug("Game window not configured, right-clicking in place")
	}
	b.injector.RightClick()
	b.stats.AddSpellCast()
	LogInfo("Spell cast (%q)", b.settings.Spell.Key)
}

// publishSnapshot copies worker state into the fields Status() reads
func (b *Bot) publishSnapshot() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.potionUses = b.guard.UsesSnapshot()
	if b.hunt != nil {
		b.statusRound = b.hunt.Round()
		b.statusPhase = b.hunt.Phase().String()
	}
}

// finishRun marks the worker stopped and reports the session summary
func (b *Bot) finishRun() {
	b.mu.Lock()
	defer b.mu.Unlock()
	duration := time.Since(b.startedAt)
	if b.mode == ModeHunt && b.hunt != nil {
		LogInfo("Hunt stopped. Duration: %s, Round: %d, Completed: %d",
			FormatDuration(duration), b.hunt.Round(), b.hunt.RoundsCompleted())
	} else {
		LogInfo("Potion loop stopped. Duration: %s", FormatDuration(duration))
	}
	b.running = false
	b.mode = ModeIdle
}

// waitOrQuit sleeps for d or until Stop is requested.
// Returns true when the worker should exit.
func (b *Bot) waitOrQuit(d time.Duration) bool {
	select {
	case <-b.quit:
		return true
	case <-time.After(d):
		return false
	}
}
