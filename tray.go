// Package main - tray.go
//
// This file implements the system tray UI.
// Uses getlantern/systray library for cross-platform tray menu support.
//
// Menu Structure:
//   Priston Bot
//   ├─ Status: Mode | Round/Phase | Potions | Uptime (read-only)
//   ├─ Start Potion Loop
//   ├─ Start Largato Hunt
//   ├─ Stop
//   ├─ Spellcasting (checkbox, potion mode only)
//   ├─ Thresholds
//   │  ├─ HP Threshold (radio 0-100% in 10% increments)
//   │  ├─ MP Threshold
//   │  └─ SP Threshold
//   ├─ Reset Statistics
//   └─ Quit (graceful shutdown)
//
// The tray only ever reads bot state through Status() snapshots; it never
// touches worker-owned objects. Threshold changes are rejected while a loop
// is running (configuration is read-only during a run) and saved to
// settings.json immediately otherwise.
package main

import (
	"fmt"
	"time"

	"github.com/getlantern/systray"
)

// thresholdSteps are the selectable threshold values (0-100% in 10% steps)
const thresholdSteps = 11

// TrayApp manages the system tray application and user interface
type TrayApp struct {
	bot      *Bot
	settings *Settings
	onExit   func()
	done     chan struct{} // closed on tray exit, stops the updater

	statusItem *systray.MenuItem

	startPotionItem *systray.MenuItem
	startHuntItem   *systray.MenuItem
	stopItem        *systray.MenuItem
	spellItem       *systray.MenuItem
	resetStatsItem  *systray.MenuItem
	quitItem        *systray.MenuItem

	hpThresholdItems [thresholdSteps]*systray.MenuItem
	mpThresholdItems [thresholdSteps]*systray.MenuItem
	spThresholdItems [thresholdSteps]*systray.MenuItem
}

// NewTrayApp creates the tray UI over the given bot
func NewTrayApp(bot *Bot, settings *Settings, onExit func()) *TrayApp {
	return &TrayApp{
		bot:      bot,
		settings: settings,
		onExit:   onExit,
		done:     make(chan struct{}),
	}
}

// Run starts the systray main loop (blocking)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.handleExit)
}

// onReady builds the menu and starts the event handlers
func (t *TrayApp) onReady() {
	systray.SetTitle("Priston Bot")
	systray.SetTooltip("Priston Tale potion & hunt bot")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current bot status")
	t.statusItem.Disable()
	systray.AddSeparator()

	t.startPotionItem = systray.AddMenuItem("Start Potion Loop", "Run the potion/spell loop")
	t.startHuntItem = systray.AddMenuItem("Start Largato Hunt", "Run the 4-round hunt")
	t.stopItem = systray.AddMenuItem("Stop", "Stop the running loop")
	systray.AddSeparator()

	t.spellItem = systray.AddMenuItemCheckbox("Spellcasting", "Cast spell periodically in potion mode", t.settings.Spell.Enabled)

	thresholds := systray.AddMenuItem("Thresholds", "Potion trigger thresholds")
	hpMenu := thresholds.AddSubMenuItem("HP Threshold", "")
	mpMenu := thresholds.AddSubMenuItem("MP Threshold", "")
	spMenu := thresholds.AddSubMenuItem("SP Threshold", "")
	for i := 0; i < thresholdSteps; i++ {
		label := fmt.Sprintf("%d%%", i*10)
		t.hpThresholdItems[i] = hpMenu.AddSubMenuItemCheckbox(label, "", int(t.settings.Thresholds.Health) == i*10)
		t.mpThresholdItems[i] = mpMenu.AddSubMenuItemCheckbox(label, "", int(t.settings.Thresholds.Mana) == i*10)
		t.spThresholdItems[i] = spMenu.AddSubMenuItemCheckbox(label, "", int(t.settings.Thresholds.Stamina) == i*10)
	}
	systray.AddSeparator()

	t.resetStatsItem = systray.AddMenuItem("Reset Statistics", "Clear potion and spell counters")
	t.quitItem = systray.AddMenuItem("Quit", "Stop the bot and exit")

	t.startHandlers()
	SafeGo(t.statusUpdater)

	LogInfo("Tray UI ready")
}

// startHandlers spawns the event handler goroutines
func (t *TrayApp) startHandlers() {
	SafeGo(func() {
		for range t.startPotionItem.ClickedCh {
			if err := t.bot.Start(); err != nil {
				LogWarn("Start potion loop: %v", err)
			}
		}
	})
	SafeGo(func() {
		for range t.startHuntItem.ClickedCh {
			if err := t.bot.StartHunt(); err != nil {
				LogWarn("Start hunt: %v", err)
			}
		}
	})
	SafeGo(func() {
		for range t.stopItem.ClickedCh {
			if err := t.bot.Stop(); err != nil {
				LogWarn("Stop: %v", err)
			}
		}
	})
	SafeGo(func() {
		for range t.spellItem.ClickedCh {
			enabled := !t.settings.Spell.Enabled
			if err := t.bot.SetSpellEnabled(enabled); err != nil {
				LogWarn("Spellcasting toggle rejected: %v", err)
				continue
			}
			if enabled {
				t.spellItem.Check()
			} else {
				t.spellItem.Uncheck()
			}
			t.saveSettings()
		}
	})
	SafeGo(func() {
		for range t.resetStatsItem.ClickedCh {
			t.bot.ResetStats()
		}
	})
	SafeGo(func() {
		<-t.quitItem.ClickedCh
		systray.Quit()
	})

	for i := 0; i < thresholdSteps; i++ {
		value := float64(i * 10)
		hpItem := t.hpThresholdItems[i]
		mpItem := t.mpThresholdItems[i]
		spItem := t.spThresholdItems[i]

		SafeGo(func() {
			for range hpItem.ClickedCh {
				t.setThreshold(ResourceHealth, value, t.hpThresholdItems[:], hpItem)
			}
		})
		SafeGo(func() {
			for range mpItem.ClickedCh {
				t.setThreshold(ResourceMana, value, t.mpThresholdItems[:], mpItem)
			}
		})
		SafeGo(func() {
			for range spItem.ClickedCh {
				t.setThreshold(ResourceStamina, value, t.spThresholdItems[:], spItem)
			}
		})
	}
}

// setThreshold routes the change through the bot (which holds the write
// lock and rejects changes while running) and updates the radio checkmarks
func (t *TrayApp) setThreshold(kind ResourceKind, value float64, items []*systray.MenuItem, selected *systray.MenuItem) {
	if err := t.bot.SetThreshold(kind, value); err != nil {
		LogWarn("Threshold change rejected: %v", err)
		return
	}
	for _, item := range items {
		item.Uncheck()
	}
	selected.Check()
	t.saveSettings()
}

// saveSettings persists the current configuration
func (t *TrayApp) saveSettings() {
	if err := SaveSettings(t.settings); err != nil {
		LogError("Failed to save settings: %v", err)
	}
}

// statusLine formats the tray status text for a snapshot
func statusLine(st Status) string {
	potions := uint64(0)
	for _, uses := range st.PotionUses {
		potions += uses
	}

	switch {
	case st.Running && st.Mode == ModeHunt:
		return fmt.Sprintf("Status: Hunt | Round %d %s | Potions %d | %s",
			st.CurrentRound, st.CurrentPhase, potions, FormatDuration(st.Elapsed))
	case st.Running:
		return fmt.Sprintf("Status: Potion | Potions %d | Spells %d | %s",
			potions, st.SpellsCast, FormatDuration(st.Elapsed))
	default:
		return "Status: Idle"
	}
}

// statusUpdater refreshes the status line once per second until the tray
// exits
func (t *TrayApp) statusUpdater() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.statusItem.SetTitle(statusLine(t.bot.Status()))
		}
	}
}

// handleExit stops any running loop and saves settings on tray shutdown
func (t *TrayApp) handleExit() {
	close(t.done)
	if err := t.bot.Stop(); err == nil {
		LogInfo("Loop stopped on exit")
	}
	t.saveSettings()
	if t.onExit != nil {
		t.onExit()
	}
}
