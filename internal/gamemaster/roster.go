package gamemaster

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"pogodps/internal/config"
)

// Roster is the mutable result of Decode. Legacy attacks are injected here;
// Seal turns it into the read-only Catalog consumed by simulation.
type Roster struct {
	creatures map[int]*Creature
	attacks   map[int]*Attack
	chart     TypeChart
	typeNames map[int]string

	creatureByName map[string]int
	attackByName   map[string]int

	// Skipped counts templates that matched no record kind or were incomplete.
	Skipped int
}

func newRoster() *Roster {
	return &Roster{
		creatures:      map[int]*Creature{},
		attacks:        map[int]*Attack{},
		chart:          TypeChart{},
		typeNames:      map[int]string{},
		creatureByName: map[string]int{},
		attackByName:   map[string]int{},
	}
}

func (r *Roster) addCreature(c *Creature) {
	r.creatures[c.ID] = c
	r.creatureByName[c.Name] = c.ID
}

func (r *Roster) addAttack(a *Attack) {
	r.attacks[a.ID] = a
	r.attackByName[a.Name] = a.ID
}

type LegacyResult struct {
	Applied int
	Missing int
}

// InjectLegacy appends each named attack to the named creature. Attacks with
// non-positive energy go to the charged list, the rest to the fast list.
// Unknown names are logged and skipped.
func (r *Roster) InjectLegacy(moves []config.LegacyMove, log *slog.Logger) LegacyResult {
	if log == nil {
		log = slog.Default()
	}
	var res LegacyResult
	for _, lm := range moves {
		cname, aname := strings.ToUpper(lm.Creature), strings.ToUpper(lm.Move)
		cid, ok := r.creatureByName[cname]
		if !ok {
			log.Warn("legacy move: creature not found", "creature", lm.Creature, "move", lm.Move)
			res.Missing++
			continue
		}
		aid, ok := r.attackByName[aname]
		if !ok {
			log.Warn("legacy move: attack not found", "creature", lm.Creature, "move", lm.Move)
			res.Missing++
			continue
		}
		c, a := r.creatures[cid], r.attacks[aid]
		if a.IsCharged() {
			c.ChargedAttacks = append(c.ChargedAttacks, aid)
		} else {
			c.FastAttacks = append(c.FastAttacks, aid)
		}
		log.Debug("legacy move injected", "creature", c.Name, "move", a.Name, "charged", a.IsCharged())
		res.Applied++
	}
	return res
}

// Seal snapshots the roster. Later changes to the roster do not reach the
// returned catalog.
func (r *Roster) Seal() *Catalog {
	cat := &Catalog{
		creatures:      make(map[int]Creature, len(r.creatures)),
		attacks:        make(map[int]Attack, len(r.attacks)),
		chart:          make(TypeChart, len(r.chart)),
		typeNames:      maps.Clone(r.typeNames),
		creatureByName: maps.Clone(r.creatureByName),
		attackByName:   maps.Clone(r.attackByName),
	}
	for id, c := range r.creatures {
		cp := *c
		cp.FastAttacks = slices.Clone(c.FastAttacks)
		cp.ChargedAttacks = slices.Clone(c.ChargedAttacks)
		cat.creatures[id] = cp
	}
	for id, a := range r.attacks {
		cat.attacks[id] = *a
	}
	for id, row := range r.chart {
		cat.chart[id] = maps.Clone(row)
	}
	cat.creatureIDs = slices.Sorted(maps.Keys(cat.creatures))
	cat.attackIDs = slices.Sorted(maps.Keys(cat.attacks))
	cat.typeIDs = slices.Sorted(maps.Keys(cat.chart))
	return cat
}

// Catalog is the read-only view of decoded records. Accessors return copies.
type Catalog struct {
	creatures map[int]Creature
	attacks   map[int]Attack
	chart     TypeChart
	typeNames map[int]string

	creatureByName map[string]int
	attackByName   map[string]int

	creatureIDs []int
	attackIDs   []int
	typeIDs     []int
}

// Creatures returns every creature ordered by id.
func (c *Catalog) Creatures() []Creature {
	out := make([]Creature, 0, len(c.creatureIDs))
	for _, id := range c.creatureIDs {
		out = append(out, c.Creature(id))
	}
	return out
}

func (c *Catalog) Creature(id int) Creature {
	cr := c.creatures[id]
	cr.FastAttacks = slices.Clone(cr.FastAttacks)
	cr.ChargedAttacks = slices.Clone(cr.ChargedAttacks)
	return cr
}

func (c *Catalog) CreatureByName(name string) (Creature, bool) {
	id, ok := c.creatureByName[strings.ToUpper(name)]
	if !ok {
		return Creature{}, false
	}
	return c.Creature(id), true
}

// Attacks returns every attack ordered by id.
func (c *Catalog) Attacks() []Attack {
	out := make([]Attack, 0, len(c.attackIDs))
	for _, id := range c.attackIDs {
		out = append(out, c.attacks[id])
	}
	return out
}

func (c *Catalog) Attack(id int) (Attack, bool) {
	a, ok := c.attacks[id]
	return a, ok
}

func (c *Catalog) AttackByName(name string) (Attack, bool) {
	id, ok := c.attackByName[strings.ToUpper(name)]
	if !ok {
		return Attack{}, false
	}
	return c.attacks[id], true
}

// TypeIDs returns the ids of every decoded type record in ascending order.
func (c *Catalog) TypeIDs() []int { return slices.Clone(c.typeIDs) }

func (c *Catalog) TypeName(id int) string {
	if n, ok := c.typeNames[id]; ok {
		return n
	}
	return "UNKNOWN"
}

func (c *Catalog) Effectiveness(attacking, defending int) float64 {
	return c.chart.Effectiveness(attacking, defending)
}
