// Package gmtest assembles synthetic game master files for tests.
package gmtest

import (
	"fmt"

	"pogodps/internal/wire/wiretest"
)

type File struct {
	msg wiretest.Message
}

func (f *File) Bytes() []byte { return f.msg.Encode() }

// Template appends a raw template record.
func (f *File) Template(t *wiretest.Message) *File {
	f.msg.Sub(2, t)
	return f
}

type CreatureSpec struct {
	Name               string // without the V0000_POKEMON_ prefix
	ID                 uint64
	Primary, Secondary uint64 // Secondary 0 means single-typed
	Attack, Defense    uint64
	Stamina            uint64
	Fast, Charged      []uint64
}

func (f *File) Creature(c CreatureSpec) *File {
	stats := new(wiretest.Message).Varint(1, c.Stamina).Varint(2, c.Attack).Varint(3, c.Defense)
	d := new(wiretest.Message).Varint(4, c.Primary)
	if c.Secondary != 0 {
		d.Varint(5, c.Secondary)
	}
	d.Sub(8, stats).
		Bytes(9, wiretest.PackedVarints(c.Fast...)).
		Bytes(10, wiretest.PackedVarints(c.Charged...))
	return f.Template(new(wiretest.Message).Text(1, idName(c.ID, "POKEMON", c.Name)).Sub(2, d))
}

type MoveSpec struct {
	Name       string
	ID         uint64
	Type       uint64
	Power      float32
	DurationMS uint64
	Energy     int64
}

func (f *File) Move(m MoveSpec) *File {
	d := new(wiretest.Message).
		Varint(3, m.Type).
		Float32(4, m.Power).
		Varint(12, m.DurationMS).
		Int(15, m.Energy)
	return f.Template(new(wiretest.Message).Text(1, idName(m.ID, "MOVE", m.Name)).Sub(4, d))
}

// Type appends a type record whose table lists multipliers against defending
// types 1, 2, 3 ...
func (f *File) Type(id uint64, name string, mults ...float32) *File {
	d := new(wiretest.Message).
		Bytes(1, wiretest.PackedFloat32(mults...)).
		Varint(2, id)
	return f.Template(new(wiretest.Message).Text(1, "POKEMON_TYPE_"+name).Sub(8, d))
}

func idName(id uint64, kind, name string) string {
	return fmt.Sprintf("V%04d_%s_%s", id, kind, name)
}

// Testmon returns the reference scenario: one NORMAL type, one creature with
// 100/100/100 base stats, a 1s fast attack and a 2s charged attack.
func Testmon() *File {
	return new(File).
		Type(1, "NORMAL", 1.0).
		Creature(CreatureSpec{Name: "TESTMON", ID: 1, Primary: 1, Attack: 100, Defense: 100, Stamina: 100,
			Fast: []uint64{10}, Charged: []uint64{20}}).
		Move(MoveSpec{Name: "TACKLE_FAST", ID: 10, Type: 1, Power: 10, DurationMS: 1000, Energy: 10}).
		Move(MoveSpec{Name: "BODY_SLAM", ID: 20, Type: 1, Power: 50, DurationMS: 2000, Energy: -50})
}
