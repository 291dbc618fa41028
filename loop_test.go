package main

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// loopTestSettings leaves every gauge region unset so the potion loop
// exercises the fail-safe path without touching the screen
func loopTestSettings() *Settings {
	s := DefaultSettings()
	s.ScanInterval = 0.01
	return s
}

func newTestBot(settings *Settings) (*Bot, *fakeInjector) {
	injector := &fakeInjector{}
	bot := NewBot(settings, &stubCapture{}, injector)
	return bot, injector
}

func TestStartStopLifecycle(t *testing.T) {
	bot, _ := newTestBot(loopTestSettings())

	if err := bot.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop before start = %v, want ErrNotRunning", err)
	}

	if err := bot.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := bot.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start = %v, want ErrAlreadyRunning", err)
	}

	st := bot.Status()
	if !st.Running || st.Mode != ModePotion {
		t.Fatalf("status after start = %+v, want running in potion mode", st)
	}

	if err := bot.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if st := bot.Status(); st.Running {
		t.Fatal("still running after Stop")
	}
	if err := bot.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("second Stop = %v, want ErrNotRunning", err)
	}
}

func TestStartHuntRequiresSkillRegion(t *testing.T) {
	bot, _ := newTestBot(loopTestSettings()) // skill bar region unset

	err := bot.StartHunt()
	if !errors.Is(err, ErrSkillRegionNotSet) {
		t.Fatalf("StartHunt = %v, want ErrSkillRegionNotSet", err)
	}
	if bot.Status().Running {
		t.Fatal("worker spawned despite precondition failure")
	}
}

func TestLoopsAreMutuallyExclusive(t *testing.T) {
	settings := loopTestSettings()
	settings.Regions.SkillBar = Rect{X: 10, Y: 10, W: 60, H: 12}
	bot, _ := newTestBot(settings)

	if err := bot.StartHunt(); err != nil {
		t.Fatalf("StartHunt failed: %v", err)
	}
	defer bot.Stop()

	if err := bot.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Start during hunt = %v, want ErrAlreadyRunning", err)
	}
	if err := bot.StartHunt(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("StartHunt during hunt = %v, want ErrAlreadyRunning", err)
	}

	st := bot.Status()
	if st.Mode != ModeHunt || st.CurrentRound != 1 {
		t.Fatalf("status = %+v, want hunt mode in round 1", st)
	}
}

func TestPotionLoopNeverFiresOnFailSafe(t *testing.T) {
	bot, injector := newTestBot(loopTestSettings())

	// Unconfigured gauges read as full, so no potion may ever fire
	if err := bot.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := bot.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	for _, key := range []string{"1", "2", "3"} {
		if got := injector.keyCount(key); got != 0 {
			t.Fatalf("potion key %q pressed %d times on fail-safe readings, want 0", key, got)
		}
	}
}

func TestPotionLoopCastsSpell(t *testing.T) {
	settings := loopTestSettings()
	settings.Spell.Enabled = true
	settings.Spell.Interval = 0.02
	settings.Regions.GameWindow = Rect{X: 0, Y: 0, W: 800, H: 600}
	bot, injector := newTestBot(settings)

	if err := bot.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := bot.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := injector.keyCount(settings.Spell.Key); got < 2 {
		t.Fatalf("spell key pressed %d times over 200ms at 20ms interval, want >= 2", got)
	}
	if injector.clickCount() < 2 {
		t.Fatalf("right-clicked %d times, want >= 2", injector.clickCount())
	}
	if st := bot.Status(); st.SpellsCast < 2 {
		t.Fatalf("SpellsCast = %d, want >= 2", st.SpellsCast)
	}
}

func TestConcurrentStops(t *testing.T) {
	bot, _ := newTestBot(loopTestSettings())
	if err := bot.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Racing Stop calls must all return cleanly; only the first may close
	// the quit channel
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bot.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
				t.Errorf("concurrent Stop = %v", err)
			}
		}()
	}
	wg.Wait()

	if bot.Status().Running {
		t.Fatal("still running after concurrent stops")
	}
}

func TestConfigChangesRejectedWhileRunning(t *testing.T) {
	settings := loopTestSettings()
	bot, _ := newTestBot(settings)

	if err := bot.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := bot.SetThreshold(ResourceHealth, 70); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("SetThreshold while running = %v, want ErrAlreadyRunning", err)
	}
	if err := bot.SetSpellEnabled(true); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("SetSpellEnabled while running = %v, want ErrAlreadyRunning", err)
	}
	if err := bot.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if err := bot.SetThreshold(ResourceHealth, 70); err != nil {
		t.Fatalf("SetThreshold while idle failed: %v", err)
	}
	if got := settings.Thresholds.Health; got != 70 {
		t.Fatalf("health threshold = %v, want 70", got)
	}
	if err := bot.SetSpellEnabled(true); err != nil {
		t.Fatalf("SetSpellEnabled while idle failed: %v", err)
	}
	if !settings.Spell.Enabled {
		t.Fatal("spellcasting not enabled")
	}
}

func TestResetStats(t *testing.T) {
	bot, _ := newTestBot(loopTestSettings())
	bot.stats.AddSpellCast()
	bot.stats.AddRoundCompleted()

	bot.ResetStats()

	st := bot.Status()
	if st.SpellsCast != 0 || st.RoundsDone != 0 {
		t.Fatalf("status after reset = %+v, want zeroed counters", st)
	}
}
