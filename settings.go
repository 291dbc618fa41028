// Package main - settings.go
//
// This file implements typed configuration and its persistence.
// Uses JSON format for human-readable and easily editable storage.
//
// Persistent Data:
//   - Gauge regions, thresholds, potion keys, and potion cooldown
//   - Skill-bar region monitored during hunts
//   - Game window rectangle (used to aim spell right-clicks)
//   - Spellcasting settings (enabled, key, interval)
//   - Hunt key bindings and per-round movement profiles
//   - Scan interval for the automation loops
//
// Load Behavior:
//   - If settings.json exists: load configuration
//   - If file doesn't exist: use defaults
//   - If file is corrupted: log error, use defaults
//
// Load errors never prevent startup; the bot falls back to defaults and
// continues running. Configuration is read-only while a loop is running;
// changing it requires stopping the loop first.
package main

import (
	"encoding/json"
	"os"
	"time"
)

const settingsFile = "settings.json"

// Thresholds holds the per-resource potion trigger percentages
type Thresholds struct {
	Health  float64 `json:"health"`
	Mana    float64 `json:"mana"`
	Stamina float64 `json:"stamina"`
}

// PotionKeys holds the key bound to each resource's potion
type PotionKeys struct {
	Health  string `json:"health"`
	Mana    string `json:"mana"`
	Stamina string `json:"stamina"`
}

// SpellSettings controls the periodic spell cast in potion mode
type SpellSettings struct {
	Enabled  bool    `json:"enabled"`
	Key      string  `json:"key"`
	Interval float64 `json:"interval"` // seconds between casts
}

// Regions holds the configured screen rectangles
type Regions struct {
	Health     Rect `json:"health"`
	Mana       Rect `json:"mana"`
	Stamina    Rect `json:"stamina"`
	SkillBar   Rect `json:"skillBar"`
	GameWindow Rect `json:"gameWindow"`
}

// HuntKeys holds the key bindings used by the hunt automaton
type HuntKeys struct {
	Attack  string    `json:"attack"`
	Primary string    `json:"primary"` // skill selected before each round
	Precast [4]string `json:"precast"` // round-1 scripted cast sequence
}

// Settings is the full typed configuration for the bot
type Settings struct {
	Thresholds       Thresholds         `json:"thresholds"`
	PotionKeys       PotionKeys         `json:"potionKeys"`
	PotionCooldown   float64            `json:"potionCooldown"` // seconds
	ScanInterval     float64            `json:"scanInterval"`   // seconds
	Spell            SpellSettings      `json:"spell"`
	Regions          Regions            `json:"regions"`
	Hunt             HuntKeys           `json:"hunt"`
	MovementProfiles [4]MovementProfile `json:"movementProfiles"`
	TargetRadius     float64            `json:"targetRadius"` // px, spell click scatter
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Thresholds: Thresholds{
			Health:  50,
			Mana:    30,
			Stamina: 40,
		},
		PotionKeys: PotionKeys{
			Health:  "1",
			Mana:    "2",
			Stamina: "3",
		},
		PotionCooldown: 3.0,
		ScanInterval:   0.5,
		Spell: SpellSettings{
			Enabled:  false,
			Key:      "f5",
			Interval: 5.0,
		},
		Hunt: HuntKeys{
			Attack:  "x",
			Primary: "f1",
			Precast: [4]string{"f1", "f2", "f3", "f4"},
		},
		MovementProfiles: [4]MovementProfile{
			{RightDuration: 3.0, LeftDuration: 0.4, ForwardPresses: 2},
			{RightDuration: 3.5, LeftDuration: 0.4, ForwardPresses: 2},
			{RightDuration: 4.0, LeftDuration: 0.4, ForwardPresses: 3},
			{RightDuration: 4.5, LeftDuration: 0.4, ForwardPresses: 3},
		},
		TargetRadius: 60,
	}
}

// Gauges builds the three resource gauges from the current configuration.
// A gauge whose region is unset stays in the list; sampling treats it as
// full so it never triggers a potion.
func (s *Settings) Gauges() []*Gauge {
	cooldown := time.Duration(s.PotionCooldown * float64(time.Second))
	return []*Gauge{
		{Kind: ResourceHealth, Region: s.Regions.Health, Threshold: s.Thresholds.Health, PotionKey: s.PotionKeys.Health, Cooldown: cooldown},
		{Kind: ResourceMana, Region: s.Regions.Mana, Threshold: s.Thresholds.Mana, PotionKey: s.PotionKeys.Mana, Cooldown: cooldown},
		{Kind: ResourceStamina, Region: s.Regions.Stamina, Threshold: s.Thresholds.Stamina, PotionKey: s.PotionKeys.Stamina, Cooldown: cooldown},
	}
}

// SaveSettings writes the configuration to settings.json with 2-space indent
func SaveSettings(s *Settings) error {
	file, err := os.Create(settingsFile)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(s)
	if err != nil {
		return err
	}

	LogInfo("Settings saved to %s", settingsFile)
	return nil
}

// LoadSettings reads settings.json, falling back to defaults when the file
// is missing or corrupted. Decode failures never prevent startup.
func LoadSettings() (*Settings, error) {
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		LogInfo("No existing settings file, using defaults")
		return DefaultSettings(), nil
	}

	file, err := os.Open(settingsFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var s Settings
	decoder := json.NewDecoder(file)
	err = decoder.Decode(&s)
	if err != nil {
		LogError("Failed to decode settings file: %v", err)
		return DefaultSettings(), nil
	}

	LogInfo("Settings loaded from %s", settingsFile)
	return &s, nil
}
