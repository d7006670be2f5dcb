package config

import (
	"errors"
	"fmt"
	"strings"
)

type Settings struct {
	RoundLength     float64 `yaml:"round_length" json:"round_length"`
	LifeTime        float64 `yaml:"life_time" json:"life_time"`
	BattleTime      float64 `yaml:"battle_time" json:"battle_time"`
	ReferenceRating float64 `yaml:"reference_rating" json:"reference_rating"`
	Dodge           bool    `yaml:"dodge" json:"dodge"`

	Highlight    string       `yaml:"highlight" json:"highlight,omitempty"`
	Excluded     []string     `yaml:"excluded" json:"excluded,omitempty"`
	ExcludedFile string       `yaml:"excluded_file" json:"excluded_file,omitempty"`
	Legacy       []LegacyMove `yaml:"legacy" json:"legacy,omitempty"`
	LegacyFile   string       `yaml:"legacy_file" json:"legacy_file,omitempty"`
	OutDir       string       `yaml:"out_dir" json:"out_dir,omitempty"`
}

type LegacyMove struct {
	Creature string `yaml:"creature" json:"creature,omitempty"`
	Move     string `yaml:"move" json:"move,omitempty"`
}

func Default() *Settings {
	return &Settings{
		RoundLength:     2.5,
		LifeTime:        100,
		BattleTime:      100,
		ReferenceRating: 1500,
		Dodge:           true,
		OutDir:          "reports",
	}
}

var ErrInvalidSettings = errors.New("invalid settings")

func (s *Settings) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, v))
		}
	}
	check("round_length", s.RoundLength)
	check("life_time", s.LifeTime)
	check("battle_time", s.BattleTime)
	check("reference_rating", s.ReferenceRating)
	if s.OutDir == "" {
		errs = append(errs, errors.New("out_dir must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

// ExcludedSet returns the excluded creature names, upper-cased.
func (s *Settings) ExcludedSet() map[string]bool {
	set := make(map[string]bool, len(s.Excluded))
	for _, n := range s.Excluded {
		set[strings.ToUpper(strings.TrimSpace(n))] = true
	}
	return set
}
