// Package main - stability.go
//
// This file implements visual activity stability detection for the skill
// bar region monitored during hunts.
//
// The detector keeps rolling statistics over a centered core crop of each
// frame and decides when the region has stopped changing. A skill animation
// produces frame-to-frame variance/brightness swings; once those swings stay
// under a change threshold for both a minimum number of consecutive samples
// and a minimum dwell time, stability is confirmed exactly once. The double
// debounce (sample count and wall time) keeps a single quiet frame from
// ending a round prematurely.
//
// The thresholds were tuned empirically against one visual theme and frame
// rate, so they live in StabilityConfig as calibratable defaults rather than
// constants buried in the logic.
package main

import (
	"image"
	"math"
	"time"
)

// ActivityObserver is the stability signal consumed by the hunt automaton
type ActivityObserver interface {
	// Observe feeds one frame and reports true exactly once,
	// when stability is newly confirmed.
	Observe(img image.Image) bool
	// ResetForNewRound clears all rolling state before a new
	// monitoring window opens.
	ResetForNewRound()
}

// StabilityConfig holds the tunable detection thresholds
type StabilityConfig struct {
	ChangeThreshold float64       // relative change above which activity is occurring
	ArmSamples      int           // consecutive calm samples before the dwell clock starts
	MinSamples      int           // consecutive calm samples required to confirm
	MinDuration     time.Duration // dwell time required to confirm
	HistorySize     int           // bounded sample history length
}

// DefaultStabilityConfig returns the calibrated defaults
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		ChangeThreshold: 0.02,
		ArmSamples:      3,
		MinSamples:      8,
		MinDuration:     time.Second,
		HistorySize:     10,
	}
}

// StabilitySample is one frame's statistics
type StabilitySample struct {
	Variance       float64
	MeanBrightness float64
	TakenAt        time.Time
}

// StabilityDetector tracks frame statistics and confirms stability.
// Not safe for concurrent use; owned by the automation goroutine.
type StabilityDetector struct {
	cfg     StabilityConfig
	history []StabilitySample

	stableSince       time.Time // zero while fewer than ArmSamples calm samples
	consecutiveStable int
	confirmed         bool

	now func() time.Time // injectable for tests
}

// NewStabilityDetector creates a detector with the given configuration
func NewStabilityDetector(cfg StabilityConfig) *StabilityDetector {
	return &StabilityDetector{
		cfg: cfg,
		now: time.Now,
	}
}

// ResetForNewRound clears history and the stability window.
// Called whenever monitoring restarts for a new attack window.
func (d *StabilityDetector) ResetForNewRound() {
	d.history = d.history[:0]
	d.stableSince = time.Time{}
	d.consecutiveStable = 0
	d.confirmed = false
}

// Observe feeds one frame to the detector.
//
// The first two observations only record statistics. From the third on, the
// frame's variance and mean brightness are compared against the average of
// the most recent samples; a relative change above the threshold resets the
// calm streak, anything below extends it. Returns true exactly once, when
// the calm streak has covered both MinSamples samples and MinDuration of
// wall time.
//
// A nil or empty frame yields no observation; the tick is skipped for this
// signal.
func (d *StabilityDetector) Observe(img image.Image) bool {
	if img == nil {
		LogDebug("Stability: nil frame, skipping observation")
		return false
	}

	variance, mean, ok := coreCropStats(img)
	if !ok {
		LogDebug("Stability: empty frame, skipping observation")
		return false
	}

	now := d.now()

	if len(d.history) >= 2 {
		avgVar, avgMean := d.recentAverages(3)
		change := math.Abs(variance-avgVar)/(avgVar+1) +
			math.Abs(mean-avgMean)/(avgMean+1)

		if change > d.cfg.ChangeThreshold {
			// Activity occurring: restart the calm streak
			d.stableSince = time.Time{}
			d.consecutiveStable = 0
			LogDebug("Stability: change %.4f above threshold, streak reset", change)
		} else {
			d.consecutiveStable++
			if d.consecutiveStable == d.cfg.ArmSamples && d.stableSince.IsZero() {
				d.stableSince = now
			}
		}
	}

	d.history = append(d.history, StabilitySample{
		Variance:       variance,
		MeanBrightness: mean,
		TakenAt:        now,
	})
	if len(d.history) > d.cfg.HistorySize {
		d.history = d.history[len(d.history)-d.cfg.HistorySize:]
	}

	if !d.confirmed &&
		!d.stableSince.IsZero() &&
		d.consecutiveStable >= d.cfg.MinSamples &&
		now.Sub(d.stableSince) >= d.cfg.MinDuration {
		d.confirmed = true
		LogInfo("Stability confirmed after %d samples over %v",
			d.consecutiveStable, now.Sub(d.stableSince))
		return true
	}
	return false
}

// recentAverages returns the mean variance and brightness of the last n
// history samples (fewer if history is shorter)
func (d *StabilityDetector) recentAverages(n int) (float64, float64) {
	if len(d.history) < n {
		n = len(d.history)
	}
	var sumVar, sumMean float64
	for _, s := range d.history[len(d.history)-n:] {
		sumVar += s.Variance
		sumMean += s.MeanBrightness
	}
	return sumVar / float64(n), sumMean / float64(n)
}

// coreCropStats computes the combined variance signal and mean brightness
// of a centered core crop of the frame.
//
// The crop is max(4, H/3) tall and max(4, W/2) wide, which discards border
// artifacts (tooltips, cursor overlap at the region edges). The variance
// signal mixes raw pixel variance with 0.1x the variance of a 16-bin
// grayscale histogram, so both texture and tonal-distribution shifts
// register as change.
func coreCropStats(img image.Image) (variance, mean float64, ok bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}

	ch := h / 3
	if ch < 4 {
		ch = 4
	}
	if ch > h {
		ch = h
	}
	cw := w / 2
	if cw < 4 {
		cw = 4
	}
	if cw > w {
		cw = w
	}

	x0 := bounds.Min.X + (w-cw)/2
	y0 := bounds.Min.Y + (h-ch)/2

	var sum, sumSq float64
	var hist [16]float64
	count := float64(cw * ch)

	for y := y0; y < y0+ch; y++ {
		for x := x0; x < x0+cw; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Luma grayscale on 0-255 scale
			gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
			sum += gray
			sumSq += gray * gray
			bin := int(gray / 16)
			if bin > 15 {
				bin = 15
			}
			hist[bin]++
		}
	}

	mean = sum / count
	pixelVar := sumSq/count - mean*mean
	if pixelVar < 0 {
		pixelVar = 0
	}

	var histSum, histSumSq float64
	for _, c := range hist {
		histSum += c
		histSumSq += c * c
	}
	histMean := histSum / 16
	histVar := histSumSq/16 - histMean*histMean
	if histVar < 0 {
		histVar = 0
	}

	return pixelVar + 0.1*histVar, mean, true
}
