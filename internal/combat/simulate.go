package combat

import (
	"fmt"
	"math"

	"pogodps/internal/gamemaster"
)

const (
	stabBonus      = 1.25
	maxEnergy      = 100.0
	minDodgeWindow = 0.5
	reactionMargin = 0.49
	energyPerHP    = 0.5
)

type Simulator struct {
	Params Params
	// Emit, when set, receives one event per rotation step.
	Emit func(Event)
}

func NewSimulator(p Params, emit func(Event)) *Simulator {
	return &Simulator{Params: p, Emit: emit}
}

// HitsPerInterval is how many fast attacks fit in one opponent interval while
// still leaving room to react. A value <= 0 means the moveset cannot dodge.
func (s *Simulator) HitsPerInterval(fast *gamemaster.Attack) int {
	return int(math.Floor((s.Params.RoundLength - reactionMargin) / fast.Duration))
}

// Run replays fast/charged rotations until BattleTime has elapsed. multiplier
// scales passive energy gained from incoming damage: AttackerMultiplier for the
// attacker pass, the creature's reference multiplier for the reference pass.
func (s *Simulator) Run(c *gamemaster.Creature, fast, charged *gamemaster.Attack, multiplier float64) (Result, error) {
	p := s.Params
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if fast.Duration <= 0 || charged.Duration <= 0 {
		return Result{}, fmt.Errorf("%s/%s: %w", fast.Name, charged.Name, ErrInvalidDuration)
	}

	res := Result{CanDodge: p.Dodge}
	limit := math.MaxInt
	if p.Dodge {
		limit = s.HitsPerInterval(fast)
		if limit <= 0 {
			return Result{}, fmt.Errorf("%s (%gs): %w", fast.Name, fast.Duration, ErrCannotDodge)
		}
		res.HitsPerInterval = limit
	}

	stamina := float64(c.BaseStamina + 15)
	gain := func(energy float64, a *gamemaster.Attack, reps float64) float64 {
		energy = energy + float64(a.Energy)*reps + (a.Duration/p.LifeTime)*energyPerHP*stamina*multiplier*reps
		return math.Min(energy, maxEnergy)
	}
	fastDamage := fast.Power * stab(c, fast)
	chargedDamage := charged.Power * stab(c, charged)

	var energy, t float64
	for t < p.BattleTime {
		if energy >= float64(-charged.Energy) {
			res.SecondaryDamage += chargedDamage
			energy = gain(energy, charged, 1)
			s.emit(t, EventCharged, map[string]any{"move": charged.Name, "damage": chargedDamage, "energy": energy})
			t += charged.Duration
			res.ChargedUsed++
			continue
		}

		reps, remaining := 1, 0.0
		if p.Dodge {
			remaining = p.RoundLength - math.Mod(t, p.RoundLength)
			reps = min(int(math.Floor(remaining/fast.Duration)), limit)
		}
		r := float64(reps)
		res.PrimaryDamage += fastDamage * r
		energy = gain(energy, fast, r)
		if reps > 0 {
			s.emit(t, EventFast, map[string]any{"move": fast.Name, "reps": reps, "damage": fastDamage * r, "energy": energy})
		}
		t += fast.Duration * r

		if p.Dodge {
			dodge := max(remaining-fast.Duration*r, minDodgeWindow)
			s.emit(t, EventDodge, map[string]any{"window": dodge})
			t += dodge
		}
	}
	res.Elapsed = t
	return res, nil
}

func stab(c *gamemaster.Creature, a *gamemaster.Attack) float64 {
	if c.HasType(a.Type) {
		return stabBonus
	}
	return 1.0
}

func (s *Simulator) emit(t float64, typ string, payload map[string]any) {
	if s.Emit != nil {
		s.Emit(Event{T: t, Type: typ, Payload: payload})
	}
}
