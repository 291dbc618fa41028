// Package main - targeting.go
//
// This file generates randomized aim offsets for spell clicks.
package main

import (
	"math"
	"math/rand"
)

// TargetingSampler draws click offsets uniformly over a disk.
//
// The radial distance is radius * sqrt(U): the square root compensates for
// the fact that a ring's area grows with its radius, so a plain uniform
// radius draw would cluster points near the center.
type TargetingSampler struct {
	rng *rand.Rand
}

// NewTargetingSampler creates a sampler seeded with the given value
func NewTargetingSampler(seed int64) *TargetingSampler {
	return &TargetingSampler{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NextOffset returns a Cartesian offset uniformly distributed over the
// disk of the given radius
func (t *TargetingSampler) NextOffset(radius float64) (dx, dy float64) {
	angle := t.rng.Float64() * 2 * math.Pi
	dist := radius * math.Sqrt(t.rng.Float64())
	return dist * math.Cos(angle), dist * math.Sin(angle)
}
