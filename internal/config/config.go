// Package config defines all configuration structures for the caseflow rules
// engine.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// EngineConfig holds tunables for the deadline and workflow engines.
type EngineConfig struct {
	// Jurisdiction selects the built-in rule catalog when no rules file is
	// supplied.  Currently only "ON" (Ontario) ships with the engine.
	Jurisdiction string `mapstructure:"jurisdiction"`

	// RulesFile optionally points to a YAML file whose rules replace the
	// built-in catalog for the configured jurisdiction.
	RulesFile string `mapstructure:"rules_file"`

	// TemplatesFile optionally points to a YAML file whose task templates
	// replace the built-in template catalog.
	TemplatesFile string `mapstructure:"templates_file"`

	// GapThresholdDays is the minimum day count between consecutive treatment
	// events before the interval is reported as a gap.
	GapThresholdDays int `mapstructure:"gap_threshold_days"`

	// MinorAgeYears is the age below which a claimant is treated as a minor
	// for limitation-period flagging.
	MinorAgeYears int `mapstructure:"minor_age_years"`

	// ReminderLeadDays are the day offsets before a due date at which email
	// reminder tasks are generated, in descending order.
	ReminderLeadDays []int `mapstructure:"reminder_lead_days"`
}

// BulkConfig holds parameters for bulk case evaluation.
type BulkConfig struct {
	// Concurrency bounds the number of cases evaluated in parallel.
	Concurrency int `mapstructure:"concurrency"`

	// Timeout bounds the wall-clock duration of one bulk batch; zero means
	// no limit beyond the caller's context.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig controls engine instrumentation.
type MetricsConfig struct {
	// Enabled selects the Prometheus-backed recorder; when false the engine
	// runs with a no-op recorder.
	Enabled bool `mapstructure:"enabled"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the engine.  Every component
// reads its settings from the relevant sub-struct.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Bulk    BulkConfig    `mapstructure:"bulk"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	// Engine
	if c.Engine.Jurisdiction == "" {
		return fmt.Errorf("config: engine.jurisdiction is required")
	}
	if c.Engine.GapThresholdDays < 1 {
		return fmt.Errorf("config: engine.gap_threshold_days must be ≥ 1, got %d", c.Engine.GapThresholdDays)
	}
	if c.Engine.MinorAgeYears < 0 {
		return fmt.Errorf("config: engine.minor_age_years must be ≥ 0, got %d", c.Engine.MinorAgeYears)
	}
	for i, lead := range c.Engine.ReminderLeadDays {
		if lead < 0 {
			return fmt.Errorf("config: engine.reminder_lead_days[%d] must be ≥ 0, got %d", i, lead)
		}
		if i > 0 && lead >= c.Engine.ReminderLeadDays[i-1] {
			return fmt.Errorf("config: engine.reminder_lead_days must be strictly descending")
		}
	}

	// Bulk
	if c.Bulk.Concurrency < 1 {
		return fmt.Errorf("config: bulk.concurrency must be ≥ 1, got %d", c.Bulk.Concurrency)
	}
	if c.Bulk.Timeout < 0 {
		return fmt.Errorf("config: bulk.timeout must be ≥ 0, got %s", c.Bulk.Timeout)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
