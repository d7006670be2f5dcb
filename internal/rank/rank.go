package rank

import (
	"cmp"
	"errors"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"

	"pogodps/internal/combat"
	"pogodps/internal/gamemaster"
)

// Overall marks entries that credit the whole moveset rather than one damage type.
const Overall = -1

// TypePair is an ordered pair of defending types. First == Second stands for a
// single-typed defender.
type TypePair struct {
	First, Second int
}

type RankedEntry struct {
	CreatureID      int
	FastAttackID    int
	ChargedAttackID int
	IsLegacy        bool
	CanDodge        bool

	DamageType int      // type credited with the damage, or Overall
	Pair       TypePair // defender pair for counter entries

	RawRate        float64 // damage per second of the attacker pass
	ScaledRate     float64 // DPS-equivalent
	EnduranceScore float64
	ReferenceScore float64

	FastHitsPerInterval int
	ChargedUsedCount    int
}

type Rankings struct {
	Overall    []RankedEntry
	ByCreature map[int][]RankedEntry
	ByType     map[int][]RankedEntry
	Counters   map[TypePair][]RankedEntry

	Simulated    int
	CannotDodge  int
	MissingMoves int
	Failed       int
}

type Options struct {
	// Highlight names a creature whose rotations are traced step by step.
	Highlight string
	Logger    *slog.Logger
}

// Run evaluates every creature against every ordered defending type pair for
// each of its fast/charged combinations, current and legacy alike.
func Run(cat *gamemaster.Catalog, p combat.Params, opts Options) (*Rankings, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	rk := &Rankings{
		ByCreature: map[int][]RankedEntry{},
		ByType:     map[int][]RankedEntry{},
		Counters:   map[TypePair][]RankedEntry{},
	}
	types := cat.TypeIDs()
	sim := combat.NewSimulator(p, nil)

	for _, c := range cat.Creatures() {
		highlight := opts.Highlight != "" && strings.EqualFold(opts.Highlight, c.Name)
		for i, fid := range c.FastAttacks {
			fast, ok := cat.Attack(fid)
			if !ok {
				rk.MissingMoves++
				log.Debug("unknown fast attack", "creature", c.Name, "attack", fid)
				continue
			}
			for j, cid := range c.ChargedAttacks {
				charged, ok := cat.Attack(cid)
				if !ok {
					rk.MissingMoves++
					log.Debug("unknown charged attack", "creature", c.Name, "attack", cid)
					continue
				}
				sim.Emit = nil
				if highlight {
					sim.Emit = tracer(log, "attacker", c.Name, fast.Name, charged.Name)
				}
				att, err := sim.Run(&c, &fast, &charged, combat.AttackerMultiplier)
				var ref combat.Result
				if err == nil {
					if highlight {
						sim.Emit = tracer(log, "reference", c.Name, fast.Name, charged.Name)
					}
					ref, err = sim.Run(&c, &fast, &charged, c.ReferenceMultiplier)
				}
				switch {
				case errors.Is(err, combat.ErrCannotDodge):
					rk.CannotDodge++
					log.Debug("moveset cannot dodge", "creature", c.Name, "fast", fast.Name, "charged", charged.Name)
					continue
				case err != nil:
					rk.Failed++
					log.Warn("simulation failed", "creature", c.Name, "fast", fast.Name, "charged", charged.Name, "err", err)
					continue
				}
				rk.Simulated++

				base := RankedEntry{
					CreatureID:          c.ID,
					FastAttackID:        fid,
					ChargedAttackID:     cid,
					IsLegacy:            i >= c.CurrentFast || j >= c.CurrentCharged,
					CanDodge:            att.CanDodge,
					DamageType:          Overall,
					FastHitsPerInterval: att.HitsPerInterval,
					ChargedUsedCount:    att.ChargedUsed,
				}
				whole := score(base, &c, att.Rate(), ref.Rate())
				rk.Overall = append(rk.Overall, whole)
				rk.ByCreature[c.ID] = append(rk.ByCreature[c.ID], whole)

				if fast.Type == charged.Type {
					e := whole
					e.DamageType = fast.Type
					rk.ByType[fast.Type] = append(rk.ByType[fast.Type], e)
				} else {
					e := base
					e.DamageType = fast.Type
					rk.ByType[fast.Type] = append(rk.ByType[fast.Type], score(e, &c, att.PrimaryRate(), ref.PrimaryRate()))
					e.DamageType = charged.Type
					rk.ByType[charged.Type] = append(rk.ByType[charged.Type], score(e, &c, att.SecondaryRate(), ref.SecondaryRate()))
				}

				for _, t1 := range types {
					for _, t2 := range types {
						fm := pairMultiplier(cat, fast.Type, t1, t2)
						cm := pairMultiplier(cat, charged.Type, t1, t2)
						e := base
						e.Pair = TypePair{t1, t2}
						e = score(e, &c,
							att.PrimaryRate()*fm+att.SecondaryRate()*cm,
							ref.PrimaryRate()*fm+ref.SecondaryRate()*cm)
						rk.Counters[e.Pair] = append(rk.Counters[e.Pair], e)
					}
				}
			}
		}
	}
	sim.Emit = nil
	log.Info("matchups evaluated", "movesets", rk.Simulated, "cannot_dodge", rk.CannotDodge,
		"missing_moves", rk.MissingMoves, "failed", rk.Failed, "counter_pairs", len(rk.Counters))
	return rk, nil
}

// pairMultiplier multiplies both defending types' multipliers independently.
// A same-type pair counts its type once.
func pairMultiplier(cat *gamemaster.Catalog, attacking, t1, t2 int) float64 {
	m := cat.Effectiveness(attacking, t1)
	if t1 != t2 {
		m *= cat.Effectiveness(attacking, t2)
	}
	return m
}

func score(e RankedEntry, c *gamemaster.Creature, rate, refRate float64) RankedEntry {
	endurance := 0.25
	if e.CanDodge {
		endurance = 1.0
	}
	e.RawRate = rate
	e.ScaledRate = rate * float64(c.BaseAttack+15)
	e.EnduranceScore = rate * c.OverallPower * endurance
	e.ReferenceScore = refRate * c.OverallPower * math.Pow(c.ReferenceMultiplier, 3)
	return e
}

func tracer(log *slog.Logger, pass, creature, fast, charged string) func(combat.Event) {
	l := log.With("pass", pass, "creature", creature, "fast", fast, "charged", charged)
	return func(ev combat.Event) {
		args := []any{"t", ev.T}
		for _, k := range slices.Sorted(maps.Keys(ev.Payload)) {
			args = append(args, k, ev.Payload[k])
		}
		l.Info(ev.Type, args...)
	}
}

type Metric int

const (
	ByDPS Metric = iota
	ByEndurance
	ByReference
	ByRaw
)

// Value returns the score of e that m orders by.
func (m Metric) Value(e *RankedEntry) float64 {
	switch m {
	case ByEndurance:
		return e.EnduranceScore
	case ByReference:
		return e.ReferenceScore
	case ByRaw:
		return e.RawRate
	}
	return e.ScaledRate
}

// Sorted returns a copy of entries ordered by metric, highest first. Equal
// values keep their input order.
func Sorted(entries []RankedEntry, m Metric) []RankedEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b RankedEntry) int {
		return cmp.Compare(m.Value(&b), m.Value(&a))
	})
	return out
}
