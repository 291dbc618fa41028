// Package main implements the Priston Tale automation bot.
//
// Architecture Overview:
// The program consists of three concurrent components:
//
//   1. Automation Worker: a single background goroutine running either the
//      potion/spell loop or the hunt automaton (never both). It owns all
//      mutable automation state and publishes status snapshots.
//
//   2. System Tray Goroutines: handle UI interactions for starting and
//      stopping loops, threshold adjustments, and statistics display.
//      The tray only reads bot state through Status() snapshots.
//
//   3. Signal Handler: translates SIGINT/SIGTERM into a graceful tray quit
//      so the worker is joined and settings are saved.
//
// Startup Sequence:
//   1. Initialize logger (Debug.log, truncated)
//   2. Load settings.json (defaults when missing or corrupted)
//   3. Create the bot with production capture and input backends
//   4. Run the system tray (blocking until quit)
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/getlantern/systray"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			LogError("Fatal panic: %v", r)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer CloseLogger()

	settings, err := LoadSettings()
	if err != nil {
		LogError("Failed to load settings: %v", err)
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}

	bot := NewBot(settings, NewScreenGrabber(), NewRobotInjector())
	tray := NewTrayApp(bot, settings, func() {
		LogInfo("Shutting down")
	})

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	SafeGo(func() {
		sig := <-sigChan
		LogInfo("Received signal %v, quitting", sig)
		systray.Quit()
	})

	LogInfo("Priston bot starting")
	tray.Run()
}
