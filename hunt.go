// Package main - hunt.go
//
// This file implements the four-round hunt automaton.
//
// Each round traverses toward the target area (MovingRight with periodic
// forward/back corrections), repositions (MovingLeft), attacks through a
// fixed warm-up window (Attacking), then keeps attacking while watching
// the skill bar until its visual activity settles (MonitoringSkill). A
// settled skill bar means the round's kill has landed, so the automaton
// runs a forward repositioning choreography (RoundComplete) and starts the
// next round. Round 1 additionally opens with a scripted four-skill
// pre-cast sequence.
//
// The automaton is a pure tick-driven state machine: Tick(now) performs at
// most a few key presses and one capture, and all timing is derived from
// the injected clock value, never from internal sleeps. The owning loop
// controls the tick rate and handles the log-and-continue error policy.
//
// Phase timing constants are hoisted into HuntTimings so the machine's
// behavior is auditable in one place.
package main

import (
	"time"
)

// HuntPhase is a named state in the hunt automaton's per-round sequence
type HuntPhase int

const (
	PhaseInitial HuntPhase = iota
	PhasePrecast
	PhaseMovingRight
	PhaseMovingLeft
	PhaseAttacking
	PhaseMonitoringSkill
	PhaseRoundComplete
	PhaseFinished
)

// String returns the display name of the phase
func (p HuntPhase) String() string {
	switch p {
	case PhaseInitial:
		return "Initial"
	case PhasePrecast:
		return "Precast"
	case PhaseMovingRight:
		return "MovingRight"
	case PhaseMovingLeft:
		return "MovingLeft"
	case PhaseAttacking:
		return "Attacking"
	case PhaseMonitoringSkill:
		return "MonitoringSkill"
	case PhaseRoundComplete:
		return "RoundComplete"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// totalRounds is the fixed number of hunt rounds
const totalRounds = 4

// HuntTimings holds every phase timing constant in one auditable table
type HuntTimings struct {
	SettleTime      time.Duration // initial wait before the hunt moves
	PrecastInterval time.Duration // spacing of the round-1 pre-cast presses
	AttackInterval  time.Duration // cadence of attack presses
	AttackWarmup    time.Duration // attack window before monitoring starts
	RoundComplete   time.Duration // forward choreography after a round
	SubWindow       time.Duration // choreography sub-window length
}

// DefaultHuntTimings returns the standard phase timings
func DefaultHuntTimings() HuntTimings {
	return HuntTimings{
		SettleTime:      3 * time.Second,
		PrecastInterval: 1500 * time.Millisecond,
		AttackInterval:  500 * time.Millisecond,
		AttackWarmup:    10 * time.Second,
		RoundComplete:   6 * time.Second,
		SubWindow:       2 * time.Second,
	}
}

// HuntAutomaton sequences movement, casting, attack, and monitoring across
// four rounds. All state is owned by the automation goroutine; the UI reads
// phase and round through Bot.Status() snapshots.
type HuntAutomaton struct {
	timings  HuntTimings
	profiles [4]MovementProfile
	keys     HuntKeys

	capture  ScreenCapture
	injector InputInjector
	detector ActivityObserver
	stats    *Statistics

	skillRegion Rect

	round          int // 1..totalRounds
	phase          HuntPhase
	phaseStartedAt time.Time
	tickCount      int // ticks within the current phase, drives press cadences

	precastStep  int
	lastCastAt   time.Time
	lastAttackAt time.Time

	roundsCompleted int
	startedAt       time.Time
}

// NewHuntAutomaton creates a hunt over the given configuration.
// An unconfigured skill-bar region is a hard precondition failure: the
// automaton cannot know when a round ends without it.
func NewHuntAutomaton(settings *Settings, capture ScreenCapture, injector InputInjector, detector ActivityObserver, stats *Statistics) (*HuntAutomaton, error) {
	if settings.Regions.SkillBar.IsZero() {
		return nil, ErrSkillRegionNotSet
	}
	return &HuntAutomaton{
		timings:     DefaultHuntTimings(),
		profiles:    settings.MovementProfiles,
		keys:        settings.Hunt,
		capture:     capture,
		injector:    injector,
		detector:    detector,
		stats:       stats,
		skillRegion: settings.Regions.SkillBar,
		round:       1,
		phase:       PhaseInitial,
	}, nil
}

// Phase returns the current phase
func (h *HuntAutomaton) Phase() HuntPhase {
	return h.phase
}

// Round returns the current round (1-4)
func (h *HuntAutomaton) Round() int {
	return h.round
}

// RoundsCompleted returns how many rounds have finished
func (h *HuntAutomaton) RoundsCompleted() int {
	return h.roundsCompleted
}

// Finished reports whether all rounds are done
func (h *HuntAutomaton) Finished() bool {
	return h.phase == PhaseFinished
}

// Tick advances the automaton by one step at the given time.
//
// A returned error is always a *TickError; the caller logs it, sleeps
// briefly, and retries the same phase. Input injection failures are logged
// inside the press helpers and never abort the tick.
func (h *HuntAutomaton) Tick(now time.Time) error {
	if h.startedAt.IsZero() {
		h.startedAt = now
		h.phaseStartedAt = now
		LogInfo("Hunt started")
	}
	h.tickCount++
	elapsed := now.Sub(h.phaseStartedAt)

	switch h.phase {
	case PhaseInitial:
		h.onInitial(now, elapsed)
	case PhasePrecast:
		h.onPrecast(now)
	case PhaseMovingRight:
		h.onMovingRight(now, elapsed)
	case PhaseMovingLeft:
		h.onMovingLeft(now, elapsed)
	case PhaseAttacking:
		h.onAttacking(now, elapsed)
	case PhaseMonitoringSkill:
		return h.onMonitoringSkill(now)
	case PhaseRoundComplete:
		h.onRoundComplete(now, elapsed)
	case PhaseFinished:
		// nothing left to do
	}
	return nil
}

// onInitial waits through the settle time, then either starts the round-1
// pre-cast sequence or goes straight to movement
func (h *HuntAutomaton) onInitial(now time.Time, elapsed time.Duration) {
	if elapsed < h.timings.SettleTime {
		return
	}
	if h.round == 1 {
		h.precastStep = 0
		h.lastCastAt = time.Time{}
		h.setPhase(PhasePrecast, now)
		return
	}
	h.enterMovingRight(now)
}

// onPrecast presses the scripted skill sequence, one key per interval
func (h *HuntAutomaton) onPrecast(now time.Time) {
	if !h.lastCastAt.IsZero() && now.Sub(h.lastCastAt) < h.timings.PrecastInterval {
		return
	}
	h.pressKey(h.keys.Precast[h.precastStep])
	h.lastCastAt = now
	h.precastStep++
	if h.precastStep >= len(h.keys.Precast) {
		h.enterMovingRight(now)
	}
}

// enterMovingRight selects the primary skill, issues the round's forward
// entry presses, and starts the traversal
func (h *HuntAutomaton) enterMovingRight(now time.Time) {
	h.pressKey(h.keys.Primary)
	profile := h.currentProfile()
	for i := 0; i < profile.ForwardPresses; i++ {
		h.pressKey(KeyMoveUp)
	}
	h.setPhase(PhaseMovingRight, now)
}

// onMovingRight traverses right with periodic forward/back corrections on a
// fixed modulo cycle
func (h *HuntAutomaton) onMovingRight(now time.Time, elapsed time.Duration) {
	profile := h.currentProfile()
	if elapsed >= seconds(profile.RightDuration) {
		h.setPhase(PhaseMovingLeft, now)
		return
	}
	h.pressKey(KeyMoveRight)
	if h.tickCount%5 == 0 {
		h.pressKey(KeyMoveUp)
	}
	if h.tickCount%9 == 0 {
		h.pressKey(KeyMoveDown)
	}
}

// onMovingLeft repositions for the attack
func (h *HuntAutomaton) onMovingLeft(now time.Time, elapsed time.Duration) {
	if elapsed >= seconds(h.currentProfile().LeftDuration) {
		h.lastAttackAt = time.Time{}
		h.setPhase(PhaseAttacking, now)
		return
	}
	h.pressKey(KeyMoveLeft)
}

// onAttacking presses the attack key on its cadence through the warm-up
// window, then opens a fresh monitoring window
func (h *HuntAutomaton) onAttacking(now time.Time, elapsed time.Duration) {
	h.attack(now)
	if elapsed >= h.timings.AttackWarmup {
		h.detector.ResetForNewRound()
		h.setPhase(PhaseMonitoringSkill, now)
	}
}

// onMonitoringSkill keeps attacking while feeding skill-bar frames to the
// stability detector; a confirmed settle ends the round
func (h *HuntAutomaton) onMonitoringSkill(now time.Time) error {
	h.attack(now)

	img, err := h.capture.Grab(h.skillRegion)
	if err != nil {
		return classifyTickError(ErrKindPerception, err)
	}
	if h.detector.Observe(img) {
		LogInfo("Hunt round %d: skill activity settled, round complete", h.round)
		h.setPhase(PhaseRoundComplete, now)
	}
	return nil
}

// onRoundComplete runs the 6s forward choreography in three sub-windows
// with decreasing press cadence, then starts the next round or finishes
func (h *HuntAutomaton) onRoundComplete(now time.Time, elapsed time.Duration) {
	if elapsed >= h.timings.RoundComplete {
		h.roundsCompleted++
		h.stats.AddRoundCompleted()
		h.round++
		if h.round > totalRounds {
			h.setPhase(PhaseFinished, now)
			LogInfo("Hunt finished: %d rounds in %s",
				h.roundsCompleted, FormatDuration(now.Sub(h.startedAt)))
			return
		}
		h.detector.ResetForNewRound()
		h.enterMovingRight(now)
		return
	}

	switch int(elapsed / h.timings.SubWindow) {
	case 0:
		h.pressKey(KeyMoveUp)
	case 1:
		if h.tickCount%2 == 0 {
			h.pressKey(KeyMoveUp)
		}
	default:
		if h.tickCount%3 == 0 {
			h.pressKey(KeyMoveUp)
		}
	}
}

// currentProfile returns the active round's movement profile
func (h *HuntAutomaton) currentProfile() MovementProfile {
	idx := h.round - 1
	if idx < 0 || idx >= len(h.profiles) {
		idx = len(h.profiles) - 1
	}
	return h.profiles[idx]
}

// attack presses the attack key if its cadence interval has elapsed
func (h *HuntAutomaton) attack(now time.Time) {
	if !h.lastAttackAt.IsZero() && now.Sub(h.lastAttackAt) < h.timings.AttackInterval {
		return
	}
	h.pressKey(h.keys.Attack)
	h.lastAttackAt = now
}

// pressKey delivers a key press, logging injection failures without
// aborting the tick
func (h *HuntAutomaton) pressKey(key string) {
	if err := h.injector.PressKey(key); err != nil {
		LogWarn("Hunt key %q failed: %v", key, classifyTickError(ErrKindInjection, err))
	}
}

// setPhase transitions to the next phase and resets the tick counter
func (h *HuntAutomaton) setPhase(phase HuntPhase, now time.Time) {
	LogInfo("Hunt round %d: phase %s -> %s", h.round, h.phase, phase)
	h.phase = phase
	h.phaseStartedAt = now
	h.tickCount = 0
}

// seconds converts a float second count to a duration
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
