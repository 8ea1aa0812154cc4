// Package config provides configuration loading, defaults, and validation for
// the caseflow rules engine.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultJurisdiction     = "ON"
	DefaultGapThresholdDays = 14
	DefaultMinorAgeYears    = 18

	DefaultBulkConcurrency = 8
	DefaultBulkTimeout     = 5 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultReminderLeadDays returns the standard reminder schedule: one week,
// three days, and one day before a due date.  Returned as a fresh slice so
// callers may mutate their copy.
func DefaultReminderLeadDays() []int { return []int{7, 3, 1} }

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.Jurisdiction == "" {
		cfg.Engine.Jurisdiction = DefaultJurisdiction
	}
	if cfg.Engine.GapThresholdDays == 0 {
		cfg.Engine.GapThresholdDays = DefaultGapThresholdDays
	}
	if cfg.Engine.MinorAgeYears == 0 {
		cfg.Engine.MinorAgeYears = DefaultMinorAgeYears
	}
	if len(cfg.Engine.ReminderLeadDays) == 0 {
		cfg.Engine.ReminderLeadDays = DefaultReminderLeadDays()
	}

	// ── Bulk ──────────────────────────────────────────────────────────────────
	if cfg.Bulk.Concurrency == 0 {
		cfg.Bulk.Concurrency = DefaultBulkConcurrency
	}
	if cfg.Bulk.Timeout == 0 {
		cfg.Bulk.Timeout = DefaultBulkTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
}
