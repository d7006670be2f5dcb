package report

import (
	"time"

	"github.com/google/uuid"

	"pogodps/internal/config"
	"pogodps/internal/gamemaster"
	"pogodps/internal/rank"
)

const (
	SummaryFile = "summary.json"
	topN        = 10
)

type Counts struct {
	Creatures     int `json:"creatures"`
	Attacks       int `json:"attacks"`
	Types         int `json:"types"`
	Skipped       int `json:"skipped_templates"`
	LegacyApplied int `json:"legacy_applied"`
	LegacyMissing int `json:"legacy_missing"`
	Simulated     int `json:"simulated"`
	CannotDodge   int `json:"cannot_dodge"`
	MissingMoves  int `json:"missing_moves"`
	Failed        int `json:"failed"`
}

type TopEntry struct {
	Creature string  `json:"creature"`
	Fast     string  `json:"fast"`
	Charged  string  `json:"charged"`
	Score    float64 `json:"score"`
	Legacy   bool    `json:"legacy,omitempty"`
	NoDodge  bool    `json:"no_dodge,omitempty"`
}

type Summary struct {
	RunID       string                `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Settings    *config.Settings      `json:"settings"`
	Counts      Counts                `json:"counts"`
	Top         map[string][]TopEntry `json:"top"`
}

// NewSummary collects counts and the leading movesets by every metric.
func NewSummary(s *config.Settings, cat *gamemaster.Catalog, rk *rank.Rankings, skipped int, legacy gamemaster.LegacyResult) *Summary {
	sum := &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Settings:    s,
		Counts: Counts{
			Creatures:     len(cat.Creatures()),
			Attacks:       len(cat.Attacks()),
			Types:         len(cat.TypeIDs()),
			Skipped:       skipped,
			LegacyApplied: legacy.Applied,
			LegacyMissing: legacy.Missing,
			Simulated:     rk.Simulated,
			CannotDodge:   rk.CannotDodge,
			MissingMoves:  rk.MissingMoves,
			Failed:        rk.Failed,
		},
		Top: map[string][]TopEntry{},
	}
	for name, m := range map[string]rank.Metric{
		"dps":       rank.ByDPS,
		"endurance": rank.ByEndurance,
		"reference": rank.ByReference,
	} {
		sorted := rank.Sorted(rk.Overall, m)
		top := make([]TopEntry, 0, min(len(sorted), topN))
		for _, e := range sorted[:min(len(sorted), topN)] {
			fast, _ := cat.Attack(e.FastAttackID)
			charged, _ := cat.Attack(e.ChargedAttackID)
			top = append(top, TopEntry{
				Creature: cat.Creature(e.CreatureID).Name,
				Fast:     AttackName(fast),
				Charged:  AttackName(charged),
				Score:    m.Value(&e),
				Legacy:   e.IsLegacy,
				NoDodge:  !e.CanDodge,
			})
		}
		sum.Top[name] = top
	}
	return sum
}
