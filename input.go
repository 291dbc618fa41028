// Package main - input.go
//
// This file defines the input injection boundary and its production
// implementation on top of robotgo.
//
// Input calls are fire-and-forget: a failed key press is logged and the
// caller continues at the next scheduled action. No retry is attempted
// mid-action because the automation loops re-issue presses on a cadence
// anyway.
package main

import (
	"github.com/go-vgo/robotgo"
)

// InputInjector delivers keyboard and mouse input to the game
type InputInjector interface {
	PressKey(key string) error
	RightClick()
	MoveMouse(x, y int)
}

// Movement key names understood by the injector
const (
	KeyMoveRight = "right"
	KeyMoveLeft  = "left"
	KeyMoveUp    = "up"
	KeyMoveDown  = "down"
)

// RobotInjector is the production InputInjector backed by robotgo
type RobotInjector struct{}

// NewRobotInjector creates an injector targeting the focused window
func NewRobotInjector() *RobotInjector {
	return &RobotInjector{}
}

// PressKey taps a single key
func (r *RobotInjector) PressKey(key string) error {
	return robotgo.KeyTap(key)
}

// RightClick issues a right mouse click at the current cursor position
func (r *RobotInjector) RightClick() {
	robotgo.Click("right")
}

// MoveMouse moves the cursor to absolute screen coordinates
func (r *RobotInjector) MoveMouse(x, y int) {
	robotgo.Move(x, y)
}
