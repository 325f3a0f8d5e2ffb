// Package config loads and validates the YAML analysis configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"location-visits/internal/domain"
)

// Validation errors. All make the run fail; the pipeline never continues
// with a partially valid configuration.
var (
	ErrInvalidAreaConfig     = errors.New("invalid area config")
	ErrInvalidScheduleConfig = errors.New("invalid schedule config")
)

// vacationEntry accepts the two YAML shapes a vacation can take: a bare
// "YYYY-MM-DD" scalar, or a {from, to} mapping with optional to.
type vacationEntry struct {
	From string
	To   string
}

func (v *vacationEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.From = node.Value
		v.To = ""
		return nil
	}

	var entry struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	}
	if err := node.Decode(&entry); err != nil {
		return fmt.Errorf("decode vacation entry: %w", err)
	}
	v.From = entry.From
	v.To = entry.To
	return nil
}

// Config is the loaded analysis configuration.
type Config struct {
	Vacation     []vacationEntry      `yaml:"vacation"`
	Worktimes    []string             `yaml:"worktimes"`
	Workdays     []int                `yaml:"workdays"`
	BankHolidays domain.HolidayRegion `yaml:"bank_holidays"`
	Areas        []domain.Area        `yaml:"areas"`
}

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates raw YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks schedule and area constraints.
func (c *Config) Validate() error {
	if len(c.Worktimes) != 2 {
		return fmt.Errorf("%w: worktimes must hold exactly [start, end], got %d entries",
			ErrInvalidScheduleConfig, len(c.Worktimes))
	}
	for _, w := range c.Worktimes {
		if err := checkDaytime(w); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScheduleConfig, err)
		}
	}
	if c.Worktimes[0] > c.Worktimes[1] {
		return fmt.Errorf("%w: worktime start %q after end %q",
			ErrInvalidScheduleConfig, c.Worktimes[0], c.Worktimes[1])
	}

	if len(c.Workdays) == 0 {
		return fmt.Errorf("%w: empty workday set", ErrInvalidScheduleConfig)
	}
	for _, d := range c.Workdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: workday %d out of range 0-6", ErrInvalidScheduleConfig, d)
		}
	}

	for i, a := range c.Areas {
		if a.Tag == "" {
			return fmt.Errorf("%w: area %d has no tag", ErrInvalidAreaConfig, i)
		}
		if a.RadiusM <= 0 {
			return fmt.Errorf("%w: area %q radius %f must be positive", ErrInvalidAreaConfig, a.Tag, a.RadiusM)
		}
		if a.Lat < -90 || a.Lat > 90 {
			return fmt.Errorf("%w: area %q latitude %f out of range", ErrInvalidAreaConfig, a.Tag, a.Lat)
		}
		if a.Lng < -180 || a.Lng > 180 {
			return fmt.Errorf("%w: area %q longitude %f out of range", ErrInvalidAreaConfig, a.Tag, a.Lng)
		}
	}

	return nil
}

// checkDaytime verifies a zero-padded 24h "HH:MM" string. The filter
// stage compares these lexicographically, so the padding matters.
func checkDaytime(s string) error {
	if len(s) != 5 {
		return fmt.Errorf("worktime %q must be zero-padded HH:MM", s)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("worktime %q: %v", s, err)
	}
	return nil
}

// VacationEntries converts the parsed vacation list into domain entries.
func (c *Config) VacationEntries() []domain.VacationEntry {
	entries := make([]domain.VacationEntry, len(c.Vacation))
	for i, v := range c.Vacation {
		entries[i] = domain.VacationEntry{From: v.From, To: v.To}
	}
	return entries
}

// Schedule converts the parsed schedule fields into the domain form the
// filter stage consumes.
func (c *Config) Schedule() domain.Schedule {
	workdays := make(map[int]bool, len(c.Workdays))
	for _, d := range c.Workdays {
		workdays[d] = true
	}
	return domain.Schedule{
		WorktimeStart: c.Worktimes[0],
		WorktimeEnd:   c.Worktimes[1],
		Workdays:      workdays,
		Holidays:      c.BankHolidays,
	}
}
