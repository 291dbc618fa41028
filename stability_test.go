package main

import (
	"image"
	"image/color"
	"testing"
	"time"
)

// grayImage creates a 20x12 frame filled with a uniform gray level
func grayImage(level uint8) *image.RGBA {
	return fillImage(20, 12, color.RGBA{R: level, G: level, B: level, A: 255})
}

// newTestDetector returns a detector on a manual clock. The returned step
// function advances the clock and feeds one frame.
func newTestDetector() (*StabilityDetector, func(img *image.RGBA, step time.Duration) bool) {
	d := NewStabilityDetector(DefaultStabilityConfig())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	observe := func(img *image.RGBA, step time.Duration) bool {
		now = now.Add(step)
		return d.Observe(img)
	}
	return d, observe
}

func TestObserveWarmup(t *testing.T) {
	_, observe := newTestDetector()

	// The first two observations only record samples
	for i := 0; i < 2; i++ {
		if observe(grayImage(100), 200*time.Millisecond) {
			t.Fatalf("Observe returned true on warmup sample %d", i+1)
		}
	}
}

func TestObserveConfirmsExactlyOnce(t *testing.T) {
	_, observe := newTestDetector()

	// 12 identical frames spaced 0.2s apart; confirmation requires 8
	// consecutive calm samples spanning at least 1s
	confirmations := 0
	firstAt := 0
	for i := 1; i <= 12; i++ {
		if observe(grayImage(100), 200*time.Millisecond) {
			confirmations++
			if firstAt == 0 {
				firstAt = i
			}
		}
	}

	if confirmations != 1 {
		t.Fatalf("got %d confirmations, want exactly 1", confirmations)
	}
	if firstAt < 10 {
		t.Fatalf("confirmed at sample %d, want no earlier than sample 10", firstAt)
	}
}

func TestSpikeResetsStreak(t *testing.T) {
	_, observe := newTestDetector()

	// Build a calm streak, then inject one bright frame
	for i := 0; i < 6; i++ {
		if observe(grayImage(100), 200*time.Millisecond) {
			t.Fatal("confirmed during initial calm streak")
		}
	}
	if observe(grayImage(220), 200*time.Millisecond) {
		t.Fatal("confirmed on the spike frame")
	}

	// The streak restarted: confirmation needs 8 fresh calm samples and
	// 1s of dwell, so nothing before post-spike sample 11
	confirmedAt := 0
	for i := 1; i <= 20; i++ {
		if observe(grayImage(100), 200*time.Millisecond) {
			confirmedAt = i
			break
		}
	}

	if confirmedAt == 0 {
		t.Fatal("never confirmed after the spike")
	}
	if confirmedAt < 11 {
		t.Fatalf("confirmed %d samples after the spike, want at least 11", confirmedAt)
	}
}

func TestResetForNewRound(t *testing.T) {
	d, observe := newTestDetector()

	// Run to confirmation
	confirmed := false
	for i := 0; i < 15; i++ {
		if observe(grayImage(100), 200*time.Millisecond) {
			confirmed = true
		}
	}
	if !confirmed {
		t.Fatal("detector never confirmed")
	}

	// After a reset the warmup applies again
	d.ResetForNewRound()
	for i := 0; i < 5; i++ {
		if observe(grayImage(100), 200*time.Millisecond) {
			t.Fatalf("confirmed on sample %d after reset, want a fresh debounce window", i+1)
		}
	}
}

func TestObserveSkipsBadFrames(t *testing.T) {
	d, _ := newTestDetector()

	if d.Observe(nil) {
		t.Fatal("Observe(nil) returned true")
	}
	if d.Observe(image.NewRGBA(image.Rect(0, 0, 0, 0))) {
		t.Fatal("Observe(empty) returned true")
	}
	if len(d.history) != 0 {
		t.Fatalf("bad frames were recorded: history has %d samples", len(d.history))
	}
}
