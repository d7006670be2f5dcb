package gamemaster

import (
	"errors"
	"math"
	"testing"

	"pogodps/internal/gamemaster/gmtest"
	"pogodps/internal/wire"
	"pogodps/internal/wire/wiretest"
)

func decode(t *testing.T, f *gmtest.File, opts Options) *Catalog {
	t.Helper()
	r, err := Decode(f.Bytes(), opts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return r.Seal()
}

func TestDecodeTestmon(t *testing.T) {
	cat := decode(t, gmtest.Testmon(), Options{RatingThreshold: 1500})

	c, ok := cat.CreatureByName("TESTMON")
	if !ok {
		t.Fatal("TESTMON not decoded")
	}
	if c.ID != 1 || c.Types != [2]int{1, 1} {
		t.Errorf("id=%d types=%v", c.ID, c.Types)
	}
	if c.BaseAttack != 100 || c.BaseDefense != 100 || c.BaseStamina != 100 {
		t.Errorf("stats = %d/%d/%d", c.BaseAttack, c.BaseDefense, c.BaseStamina)
	}
	if len(c.FastAttacks) != 1 || c.FastAttacks[0] != 10 || len(c.ChargedAttacks) != 1 || c.ChargedAttacks[0] != 20 {
		t.Errorf("attacks = %v / %v", c.FastAttacks, c.ChargedAttacks)
	}
	if c.CurrentFast != 1 || c.CurrentCharged != 1 {
		t.Errorf("current counts = %d/%d", c.CurrentFast, c.CurrentCharged)
	}
	if c.Durability != 13225 || c.OverallPower != 1520875 {
		t.Errorf("durability=%v overall=%v", c.Durability, c.OverallPower)
	}
	if math.Abs(c.MaxRating-825.9992549) > 1e-6 {
		t.Errorf("MaxRating = %v", c.MaxRating)
	}
	if c.ReferenceMultiplier != 0 {
		t.Errorf("ReferenceMultiplier = %v, want 0 below threshold", c.ReferenceMultiplier)
	}

	fast, ok := cat.Attack(10)
	if !ok {
		t.Fatal("fast attack missing")
	}
	if fast.Name != "TACKLE_FAST" || fast.Power != 10 || fast.Duration != 1.0 || fast.Energy != 10 || fast.Type != 1 {
		t.Errorf("fast = %+v", fast)
	}
	if fast.EnergyPerSecond != 10 || fast.DamagePerSecond != 10 || fast.DamagePerEnergy != 1 {
		t.Errorf("fast derived = %v %v %v", fast.EnergyPerSecond, fast.DamagePerSecond, fast.DamagePerEnergy)
	}
	charged, _ := cat.AttackByName("body_slam")
	if charged.Energy != -50 || charged.Duration != 2.0 || !charged.IsCharged() {
		t.Errorf("charged = %+v", charged)
	}

	if ids := cat.TypeIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Errorf("TypeIDs = %v", ids)
	}
	if cat.TypeName(1) != "NORMAL" || cat.Effectiveness(1, 1) != 1.0 {
		t.Errorf("type 1 = %s %v", cat.TypeName(1), cat.Effectiveness(1, 1))
	}
}

func TestReferenceMultiplier(t *testing.T) {
	cat := decode(t, gmtest.Testmon(), Options{RatingThreshold: 500})
	c, _ := cat.CreatureByName("TESTMON")
	want := math.Sqrt(500 * 10 / (115 * math.Sqrt(115*115)))
	if math.Abs(c.ReferenceMultiplier-want) > 1e-12 {
		t.Errorf("ReferenceMultiplier = %v, want %v", c.ReferenceMultiplier, want)
	}
}

func TestDecodeDualTypeAndTable(t *testing.T) {
	f := new(gmtest.File).
		Type(1, "NORMAL", 1, 1, 0.625).
		Type(2, "FIGHTING", 1.6, 1, 0.625).
		Creature(gmtest.CreatureSpec{Name: "DUALMON", ID: 7, Primary: 2, Secondary: 3, Attack: 1, Defense: 2, Stamina: 3})
	cat := decode(t, f, Options{RatingThreshold: 1500})

	c, ok := cat.CreatureByName("DUALMON")
	if !ok || c.Types != [2]int{2, 3} {
		t.Fatalf("DUALMON = %+v", c)
	}
	if len(c.FastAttacks) != 0 {
		t.Errorf("empty packed list decoded as %v", c.FastAttacks)
	}
	if cat.Effectiveness(2, 1) != float64(float32(1.6)) {
		t.Errorf("FIGHTING->NORMAL = %v", cat.Effectiveness(2, 1))
	}
	if cat.Effectiveness(1, 3) != 0.625 {
		t.Errorf("NORMAL->3 = %v", cat.Effectiveness(1, 3))
	}
	if cat.Effectiveness(9, 1) != 1.0 {
		t.Error("missing chart entries should be neutral")
	}
}

func TestDecodeSkipsUnrelatedRecords(t *testing.T) {
	f := gmtest.Testmon()
	f.Template(new(wiretest.Message).Text(1, "ITEM_POTION").Sub(2, new(wiretest.Message).Varint(1, 20)))
	f.Template(new(wiretest.Message).Text(1, "V0099_POKEMON_NODETAILS"))
	f.Template(new(wiretest.Message).Sub(2, new(wiretest.Message).Varint(4, 1)))
	f.Template(new(wiretest.Message).Varint(1, 5).Sub(2, new(wiretest.Message)))

	r, err := Decode(f.Bytes(), Options{RatingThreshold: 1500})
	if err != nil {
		t.Fatal(err)
	}
	if r.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", r.Skipped)
	}
	cat := r.Seal()
	if len(cat.Creatures()) != 1 {
		t.Errorf("creatures = %d", len(cat.Creatures()))
	}
}

func TestDecodeExcluded(t *testing.T) {
	cat := decode(t, gmtest.Testmon(), Options{RatingThreshold: 1500, Excluded: map[string]bool{"TESTMON": true}})
	if len(cat.Creatures()) != 0 {
		t.Error("excluded creature was decoded")
	}
	if len(cat.Attacks()) != 2 {
		t.Errorf("attacks = %d", len(cat.Attacks()))
	}
}

func TestDecodeFatalErrors(t *testing.T) {
	badStats := new(wiretest.Message).Text(1, "V0005_POKEMON_BROKEN").
		Sub(2, new(wiretest.Message).Varint(4, 1).Varint(8, 3))
	groupInDetails := new(wiretest.Message).Text(1, "V0005_MOVE_BROKEN").
		Bytes(4, []byte{0x1b, 0x00})
	truncatedDetails := new(wiretest.Message).Text(1, "V0005_MOVE_BROKEN").
		Bytes(4, []byte{0x1a, 0x09, 0x01})
	floatAsVarint := new(wiretest.Message).Text(1, "V0005_MOVE_BROKEN").
		Sub(4, new(wiretest.Message).Varint(4, 10))

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"stats not a message", new(gmtest.File).Template(badStats).Bytes(), wire.ErrInvalidRegionCast},
		{"group wire type", new(gmtest.File).Template(groupInDetails).Bytes(), wire.ErrUnsupportedWireType},
		{"nested truncation", new(gmtest.File).Template(truncatedDetails).Bytes(), wire.ErrTruncatedMessage},
		{"power as varint", new(gmtest.File).Template(floatAsVarint).Bytes(), wire.ErrFieldKindMismatch},
		{"top-level truncation", append(gmtest.Testmon().Bytes(), 0x12, 0x05, 0x01), wire.ErrTruncatedMessage},
		{"dangling key", append(gmtest.Testmon().Bytes(), 0x80), wire.ErrBufferExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, Options{RatingThreshold: 1500})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	r, err := Decode(nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Seal().Creatures()) != 0 {
		t.Error("expected empty catalog")
	}
}

func TestDecodeFiveDigitIDs(t *testing.T) {
	f := new(gmtest.File).
		Type(1, "NORMAL", 1).
		Creature(gmtest.CreatureSpec{Name: "BIGMON", ID: 12345, Primary: 1, Attack: 10, Defense: 10, Stamina: 10,
			Fast: []uint64{10001}, Charged: []uint64{20002}}).
		Move(gmtest.MoveSpec{Name: "POUND_FAST", ID: 10001, Type: 1, Power: 7, DurationMS: 500, Energy: 5}).
		Move(gmtest.MoveSpec{Name: "STOMP", ID: 20002, Type: 1, Power: 55, DurationMS: 1700, Energy: -50})
	cat := decode(t, f, Options{RatingThreshold: 1500})

	c, ok := cat.CreatureByName("BIGMON")
	if !ok || c.ID != 12345 {
		t.Fatalf("BIGMON = %+v, %v", c, ok)
	}
	for _, id := range []int{10001, 20002} {
		if _, ok := cat.Attack(id); !ok {
			t.Errorf("attack %d missing", id)
		}
	}
}

func TestDecodeIgnoresScalarTemplateField(t *testing.T) {
	buf := new(wiretest.Message).Varint(2, 7).Fixed64(2, 1).Encode()
	buf = append(buf, gmtest.Testmon().Bytes()...)
	r, err := Decode(buf, Options{RatingThreshold: 1500})
	if err != nil {
		t.Fatal(err)
	}
	if r.Skipped != 0 || len(r.Seal().Creatures()) != 1 {
		t.Errorf("Skipped = %d, creatures = %d", r.Skipped, len(r.Seal().Creatures()))
	}
}
