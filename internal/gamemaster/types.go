package gamemaster

import "math"

// AttackerMultiplier is the combat-power multiplier of a fully powered-up creature.
const AttackerMultiplier = 0.79030001

type Creature struct {
	ID          int
	Name        string
	Types       [2]int // both slots equal for single-typed creatures
	BaseAttack  int
	BaseDefense int
	BaseStamina int

	// The first CurrentFast/CurrentCharged ids are the current pool; anything
	// appended afterwards is legacy.
	FastAttacks    []int
	ChargedAttacks []int
	CurrentFast    int
	CurrentCharged int

	MaxRating           float64
	Durability          float64
	OverallPower        float64
	ReferenceMultiplier float64
}

func (c *Creature) HasType(t int) bool { return c.Types[0] == t || c.Types[1] == t }

func (c *Creature) derive(ratingThreshold float64) {
	atk := float64(c.BaseAttack + 15)
	def := float64(c.BaseDefense + 15)
	sta := float64(c.BaseStamina + 15)

	c.MaxRating = atk * math.Sqrt(def) * math.Sqrt(sta) * AttackerMultiplier * AttackerMultiplier / 10.0
	c.Durability = def * sta
	c.OverallPower = atk * c.Durability
	c.ReferenceMultiplier = 0
	if c.MaxRating >= ratingThreshold {
		c.ReferenceMultiplier = math.Sqrt(ratingThreshold * 10 / (atk * math.Sqrt(def*sta)))
	}
}

type Attack struct {
	ID       int
	Name     string
	Power    float64
	Duration float64 // seconds
	Energy   int     // negative for charged attacks
	Type     int

	EnergyPerSecond float64
	DamagePerSecond float64
	// DamagePerEnergy is meaningful only for fast attacks.
	DamagePerEnergy float64
}

// IsCharged reports whether the attack spends energy.
func (a *Attack) IsCharged() bool { return a.Energy <= 0 }

func (a *Attack) derive() {
	a.EnergyPerSecond, a.DamagePerSecond, a.DamagePerEnergy = 0, 0, 0
	if a.Duration > 0 {
		a.EnergyPerSecond = float64(a.Energy) / a.Duration
		a.DamagePerSecond = a.Power / a.Duration
	}
	if a.Energy != 0 {
		a.DamagePerEnergy = a.Power / float64(a.Energy)
	}
}

// TypeChart maps attacking type -> defending type -> multiplier.
type TypeChart map[int]map[int]float64

// Effectiveness returns the multiplier, or 1 when the chart has no entry.
func (tc TypeChart) Effectiveness(attacking, defending int) float64 {
	if row, ok := tc[attacking]; ok {
		if v, ok := row[defending]; ok {
			return v
		}
	}
	return 1.0
}
