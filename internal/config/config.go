package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orbithealth/orbitscore/internal/model"
)

const dateLayout = "2006-01-02"

// Config holds all runtime configuration for an orbit run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"

	// Period bounds, inclusive start / exclusive end, as YYYY-MM-DD.
	From string
	To   string

	// Optional previous period for trend computation.
	PrevFrom string
	PrevTo   string

	// Label is the date-range label carried through to reports and
	// exports for display only.
	Label string

	// SettingsPath points at the facility scoring settings YAML.
	// Empty means built-in defaults.
	SettingsPath string

	OutParquet string
	OutCSV     string
}

// Validate checks the period flags and returns an error if the config is
// unusable.
func (c *Config) Validate() error {
	if c.From == "" || c.To == "" {
		return fmt.Errorf("--from and --to are required")
	}
	from, to, err := c.PeriodRange()
	if err != nil {
		return err
	}
	if !from.Before(to) {
		return fmt.Errorf("--from %s must be before --to %s", c.From, c.To)
	}
	if (c.PrevFrom == "") != (c.PrevTo == "") {
		return fmt.Errorf("--prev-from and --prev-to must be set together")
	}
	return nil
}

// ValidateWithDSN checks period flags plus the database connection string.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or ORBIT_DB_URL is required")
	}
	return nil
}

// PeriodRange parses the current period bounds.
func (c *Config) PeriodRange() (from, to time.Time, err error) {
	return parseRange(c.From, c.To)
}

// PreviousRange parses the previous period bounds. ok is false when no
// previous period was requested.
func (c *Config) PreviousRange() (from, to time.Time, ok bool, err error) {
	if c.PrevFrom == "" && c.PrevTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	from, to, err = parseRange(c.PrevFrom, c.PrevTo)
	return from, to, err == nil, err
}

// DisplayLabel returns the explicit label, or one derived from the period
// bounds.
func (c *Config) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("%s to %s", c.From, c.To)
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	from, err = time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse from date %q: %w", fromStr, err)
	}
	to, err = time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse to date %q: %w", toStr, err)
	}
	return from, to, nil
}

// LoadSettings returns the facility scoring settings: defaults overlaid
// with the YAML file at SettingsPath when one is configured.
func (c *Config) LoadSettings() (model.Settings, error) {
	settings := model.DefaultSettings()
	if c.SettingsPath != "" {
		data, err := os.ReadFile(c.SettingsPath)
		if err != nil {
			return model.Settings{}, fmt.Errorf("read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return model.Settings{}, fmt.Errorf("parse settings file: %w", err)
		}
	}
	if err := settings.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return settings, nil
}
