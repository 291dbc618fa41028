package main

import (
	"math"
	"testing"
)

func TestNextOffsetStaysInDisk(t *testing.T) {
	sampler := NewTargetingSampler(1)
	const radius = 100.0

	for i := 0; i < 1000; i++ {
		dx, dy := sampler.NextOffset(radius)
		if dist := math.Hypot(dx, dy); dist > radius+1e-9 {
			t.Fatalf("offset (%f, %f) outside radius %f", dx, dy, radius)
		}
	}
}

func TestNextOffsetAreaUniform(t *testing.T) {
	sampler := NewTargetingSampler(42)
	const (
		radius = 100.0
		n      = 20000
	)

	// The disk of radius R/sqrt(2) covers half the area of the full disk,
	// so an area-uniform distribution puts half the samples inside it. A
	// naive uniform radius draw would put ~71% there instead.
	innerRadius := radius / math.Sqrt2
	inner := 0
	for i := 0; i < n; i++ {
		dx, dy := sampler.NextOffset(radius)
		if math.Hypot(dx, dy) <= innerRadius {
			inner++
		}
	}

	ratio := float64(inner) / n
	if ratio < 0.47 || ratio > 0.53 {
		t.Fatalf("inner half-area disk holds %.3f of samples, want ~0.5", ratio)
	}
}

func TestNextOffsetCoversAllQuadrants(t *testing.T) {
	sampler := NewTargetingSampler(7)
	var quadrants [4]int

	for i := 0; i < 4000; i++ {
		dx, dy := sampler.NextOffset(50)
		q := 0
		if dx < 0 {
			q |= 1
		}
		if dy < 0 {
			q |= 2
		}
		quadrants[q]++
	}

	for q, count := range quadrants {
		if count < 500 {
			t.Fatalf("quadrant %d got %d of 4000 samples, angles not uniform", q, count)
		}
	}
}
