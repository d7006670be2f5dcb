package combat

import (
	"errors"
	"fmt"

	"pogodps/internal/config"
	"pogodps/internal/gamemaster"
)

// AttackerMultiplier drives the attacker pass of every matchup.
const AttackerMultiplier = gamemaster.AttackerMultiplier

type Event struct {
	T       float64        `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	EventFast    = "FastAttack"
	EventCharged = "ChargedAttack"
	EventDodge   = "Dodge"
)

var (
	ErrCannotDodge     = errors.New("fast attack too slow to dodge between opponent attacks")
	ErrInvalidDuration = errors.New("attack duration must be positive")
	ErrInvalidParams   = errors.New("invalid simulation parameters")
)

type Params struct {
	RoundLength float64 // opponent attack interval
	LifeTime    float64 // expected survival time, normalizes passive energy
	BattleTime  float64
	Dodge       bool
}

func ParamsFrom(s *config.Settings) Params {
	return Params{
		RoundLength: s.RoundLength,
		LifeTime:    s.LifeTime,
		BattleTime:  s.BattleTime,
		Dodge:       s.Dodge,
	}
}

func (p Params) Validate() error {
	if p.RoundLength <= 0 || p.LifeTime <= 0 || p.BattleTime <= 0 {
		return fmt.Errorf("%w: round=%g life=%g battle=%g", ErrInvalidParams, p.RoundLength, p.LifeTime, p.BattleTime)
	}
	return nil
}

type Result struct {
	PrimaryDamage   float64 // fast attacks
	SecondaryDamage float64 // charged attacks
	Elapsed         float64
	HitsPerInterval int // fast-attack cap per opponent interval; 0 when not dodging
	ChargedUsed     int
	CanDodge        bool
}

func (r Result) PrimaryRate() float64   { return r.PrimaryDamage / r.Elapsed }
func (r Result) SecondaryRate() float64 { return r.SecondaryDamage / r.Elapsed }
func (r Result) Rate() float64          { return (r.PrimaryDamage + r.SecondaryDamage) / r.Elapsed }
