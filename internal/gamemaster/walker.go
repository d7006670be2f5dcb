package gamemaster

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"pogodps/internal/wire"
)

var (
	creaturePattern = regexp.MustCompile(`^V(\d+)_POKEMON_(.*)$`)
	attackPattern   = regexp.MustCompile(`^V(\d+)_MOVE_(.*)$`)
	typePattern     = regexp.MustCompile(`^POKEMON_TYPE_(.*)$`)
)

// Top-level framing: field 2 wraps one template, whose field 1 is its name and
// whose details sit in field 2, 4 or 8.
const (
	fieldTemplate = 2
	fieldName     = 1
)

type Options struct {
	// RatingThreshold feeds the reference multiplier of every creature.
	RatingThreshold float64
	Excluded        map[string]bool
	Logger          *slog.Logger
}

// setter applies one decoded field to a record under construction.
type setter[T any] func(rec *T, f wire.Field) error

type fieldTable[T any] map[uint64]setter[T]

// decodeFields walks region and hands every field with a known number to its
// setter. Unknown numbers are ignored.
func decodeFields[T any](region []byte, table fieldTable[T], rec *T) error {
	return wire.Walk(region, func(f wire.Field) error {
		if set, ok := table[f.Number]; ok {
			return set(rec, f)
		}
		return nil
	})
}

type template struct {
	name    wire.Field
	details wire.Field
}

func keepDetails(t *template, f wire.Field) error { t.details = f; return nil }

var templateFields = fieldTable[template]{
	fieldName: func(t *template, f wire.Field) error { t.name = f; return nil },
	2:         keepDetails,
	4:         keepDetails,
	8:         keepDetails,
}

type creatureDraft struct {
	Creature
	hasSecondary bool
}

func varintInto(dst *int, f wire.Field) error {
	v, err := f.Uint64()
	if err != nil {
		return err
	}
	*dst = int(v)
	return nil
}

func packedIDs(f wire.Field) ([]int, error) {
	region, err := f.Region()
	if err != nil {
		return nil, err
	}
	vs, err := wire.PackedVarints(region)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(vs))
	for i, v := range vs {
		ids[i] = int(v)
	}
	return ids, nil
}

// Base stats only carry varints; anything else is ignored.
var statFields = fieldTable[Creature]{
	1: func(c *Creature, f wire.Field) error { return statInto(&c.BaseStamina, f) },
	2: func(c *Creature, f wire.Field) error { return statInto(&c.BaseAttack, f) },
	3: func(c *Creature, f wire.Field) error { return statInto(&c.BaseDefense, f) },
}

func statInto(dst *int, f wire.Field) error {
	if f.Kind() != wire.KindVarint {
		return nil
	}
	return varintInto(dst, f)
}

var creatureFields = fieldTable[creatureDraft]{
	4: func(c *creatureDraft, f wire.Field) error { return varintInto(&c.Types[0], f) },
	5: func(c *creatureDraft, f wire.Field) error {
		c.hasSecondary = true
		return varintInto(&c.Types[1], f)
	},
	8: func(c *creatureDraft, f wire.Field) error {
		region, err := f.Region()
		if err != nil {
			return err
		}
		return decodeFields(region, statFields, &c.Creature)
	},
	9: func(c *creatureDraft, f wire.Field) (err error) {
		c.FastAttacks, err = packedIDs(f)
		return err
	},
	10: func(c *creatureDraft, f wire.Field) (err error) {
		c.ChargedAttacks, err = packedIDs(f)
		return err
	},
}

var attackFields = fieldTable[Attack]{
	3: func(a *Attack, f wire.Field) error { return varintInto(&a.Type, f) },
	4: func(a *Attack, f wire.Field) error {
		p, err := f.Float32()
		a.Power = float64(p)
		return err
	},
	12: func(a *Attack, f wire.Field) error {
		ms, err := f.Uint64()
		a.Duration = float64(ms) / 1000.0
		return err
	},
	15: func(a *Attack, f wire.Field) error {
		e, err := f.Int64()
		a.Energy = int(e)
		return err
	},
}

type typeDraft struct {
	id    int
	hasID bool
	table map[int]float64
}

var typeFields = fieldTable[typeDraft]{
	1: func(t *typeDraft, f wire.Field) error {
		region, err := f.Region()
		if err != nil {
			return err
		}
		mults, err := wire.PackedFloat32(region)
		if err != nil {
			return err
		}
		// The 1-based position in the table is the defending type id.
		t.table = make(map[int]float64, len(mults))
		for i, m := range mults {
			t.table[i+1] = float64(m)
		}
		return nil
	},
	2: func(t *typeDraft, f wire.Field) error {
		t.hasID = true
		return varintInto(&t.id, f)
	},
}

// Decode walks an entire game master buffer. Records that are not creatures,
// attacks or types are skipped; any framing error aborts the whole decode.
func Decode(buf []byte, opts Options) (*Roster, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	r := newRoster()
	err := wire.Walk(buf, func(f wire.Field) error {
		region, ok := f.Value.(wire.Region)
		if f.Number != fieldTemplate || !ok {
			return nil
		}
		var t template
		if err := decodeFields(region, templateFields, &t); err != nil {
			return err
		}
		if t.name.Value == nil || t.details.Value == nil {
			r.Skipped++
			return nil
		}
		name, nerr := t.name.Text()
		details, derr := t.details.Region()
		if nerr != nil || derr != nil {
			r.Skipped++
			return nil
		}
		return r.classify(name, details, opts, log)
	})
	if err != nil {
		return nil, fmt.Errorf("decode game master: %w", err)
	}
	log.Info("game master decoded",
		"creatures", len(r.creatures), "attacks", len(r.attacks), "types", len(r.chart), "skipped", r.Skipped)
	return r, nil
}

func (r *Roster) classify(name string, details []byte, opts Options, log *slog.Logger) error {
	if m := creaturePattern.FindStringSubmatch(name); m != nil {
		if opts.Excluded[m[2]] {
			log.Debug("creature excluded", "name", m[2])
			return nil
		}
		id, _ := strconv.Atoi(m[1])
		var d creatureDraft
		if err := decodeFields(details, creatureFields, &d); err != nil {
			return fmt.Errorf("creature %s: %w", name, err)
		}
		if !d.hasSecondary {
			d.Types[1] = d.Types[0]
		}
		c := d.Creature
		c.ID, c.Name = id, m[2]
		c.CurrentFast, c.CurrentCharged = len(c.FastAttacks), len(c.ChargedAttacks)
		c.derive(opts.RatingThreshold)
		r.addCreature(&c)
		log.Debug("creature decoded", "id", id, "name", c.Name, "types", c.Types,
			"atk", c.BaseAttack, "def", c.BaseDefense, "sta", c.BaseStamina)
		return nil
	}
	if m := attackPattern.FindStringSubmatch(name); m != nil {
		id, _ := strconv.Atoi(m[1])
		var a Attack
		if err := decodeFields(details, attackFields, &a); err != nil {
			return fmt.Errorf("attack %s: %w", name, err)
		}
		a.ID, a.Name = id, m[2]
		a.derive()
		r.addAttack(&a)
		log.Debug("attack decoded", "id", id, "name", a.Name, "power", a.Power,
			"duration", a.Duration, "energy", a.Energy, "type", a.Type)
		return nil
	}
	if m := typePattern.FindStringSubmatch(name); m != nil {
		var t typeDraft
		if err := decodeFields(details, typeFields, &t); err != nil {
			return fmt.Errorf("type %s: %w", name, err)
		}
		if !t.hasID {
			r.Skipped++
			return nil
		}
		r.chart[t.id] = t.table
		r.typeNames[t.id] = m[1]
		return nil
	}
	r.Skipped++
	return nil
}
