// Package main - capture.go
//
// This file defines the screen capture boundary and its production
// implementation on top of the kbinani/screenshot library.
package main

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenCapture grabs a region of the screen as an RGBA image.
// Implementations must return an error rather than panic on capture
// failure; callers treat failures as perception errors and fail safe.
type ScreenCapture interface {
	Grab(region Rect) (*image.RGBA, error)
}

// ScreenGrabber is the production ScreenCapture backed by the OS display
type ScreenGrabber struct{}

// NewScreenGrabber creates a screen grabber for the primary display
func NewScreenGrabber() *ScreenGrabber {
	return &ScreenGrabber{}
}

// Grab captures the given screen region
func (g *ScreenGrabber) Grab(region Rect) (*image.RGBA, error) {
	if region.IsZero() {
		return nil, fmt.Errorf("capture region not configured")
	}

	img, err := screenshot.Capture(region.X, region.Y, region.W, region.H)
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return img, nil
}
