package report

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pogodps/internal/combat"
	"pogodps/internal/config"
	"pogodps/internal/gamemaster"
	"pogodps/internal/gamemaster/gmtest"
	"pogodps/internal/rank"
)

func build(t *testing.T, f *gmtest.File, dodge bool, legacy ...config.LegacyMove) *Report {
	t.Helper()
	s := config.Default()
	s.Dodge = dodge
	s.Legacy = legacy
	r, err := gamemaster.Decode(f.Bytes(), gamemaster.Options{RatingThreshold: s.ReferenceRating})
	if err != nil {
		t.Fatal(err)
	}
	lr := r.InjectLegacy(s.Legacy, nil)
	cat := r.Seal()
	rk, err := rank.Run(cat, combat.ParamsFrom(s), rank.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return &Report{Catalog: cat, Rankings: rk, Summary: NewSummary(s, cat, rk, r.Skipped, lr)}
}

func write(t *testing.T, r *Report) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	if err := r.Write(dir, nil); err != nil {
		t.Fatal(err)
	}
	return dir
}

func read(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestWriteCreatesEveryFile(t *testing.T) {
	dir := write(t, build(t, gmtest.Testmon(), true))
	for _, name := range Files() {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestReportLines(t *testing.T) {
	dir := write(t, build(t, gmtest.Testmon(), true))

	tests := []struct {
		file string
		want string
	}{
		{"cplist.txt", "TESTMON: 825.999\n"},
		{"tankiness.txt", "TESTMON:  13,225\n"},
		{"truestrength.txt", "TESTMON:  1,520,875\n"},
		{"dpslist.txt", "TESTMON: TACKLE + BODY_SLAM : 1,624.375 (14.125)\n"},
		{"truepowerlist.txt", "TESTMON: TACKLE + BODY_SLAM : 21,482,359.375\n"},
		{"referencelist.txt", "TESTMON: TACKLE + BODY_SLAM : 0\n"},
		{"bestDPSbyType.txt", "Best attackers of NORMAL type:\n\nTESTMON: TACKLE + BODY_SLAM : 1,624.375\n\n\n"},
		{"bestDPSCounters.txt", "Best counters of NORMAL-NORMAL\nTESTMON: TACKLE + BODY_SLAM : 1,624.375\n\n\n"},
		{"types.txt", ""},
	}
	for _, tt := range tests {
		if got := read(t, dir, tt.file); got != tt.want {
			t.Errorf("%s:\n got %q\nwant %q", tt.file, got, tt.want)
		}
	}

	list := read(t, dir, "pokemonlist.txt")
	if !strings.HasPrefix(list, "#1 TESTMON (Type: NORMAL, NORMAL) (Max CP: 825.999, ATK: 100, DEF: 100, STA: 100)\n") {
		t.Errorf("pokemonlist header: %q", list)
	}
	if !strings.Contains(list, "TACKLE + BODY_SLAM : 1,624.375 (14.125)\n") {
		t.Errorf("pokemonlist moveset missing: %q", list)
	}
	if moves := read(t, dir, "moves.txt"); !strings.Contains(moves, "TACKLE_FAST") || !strings.HasPrefix(moves, "Id") {
		t.Errorf("moves.txt: %q", moves)
	}
}

func TestMarks(t *testing.T) {
	f := gmtest.Testmon().
		Move(gmtest.MoveSpec{Name: "LICK_FAST", ID: 11, Type: 1, Power: 5, DurationMS: 500, Energy: 6})
	lick := config.LegacyMove{Creature: "testmon", Move: "lick_fast"}

	dps := read(t, write(t, build(t, f, true, lick)), "dpslist.txt")
	if !strings.Contains(dps, "TESTMON: LICK + BODY_SLAM : ") || !strings.Contains(dps, " (legacy)\n") {
		t.Errorf("legacy entry not marked:\n%s", dps)
	}
	if strings.Contains(dps, "(no dodge)") {
		t.Errorf("dodging run marked no dodge:\n%s", dps)
	}

	nd := read(t, write(t, build(t, f, false, lick)), "dpslist.txt")
	if strings.Count(nd, "(no dodge)") != 2 {
		t.Errorf("no-dodge run:\n%s", nd)
	}
}

func TestTypesReport(t *testing.T) {
	f := new(gmtest.File).
		Type(1, "NORMAL", 1, 0.5).
		Type(2, "FIGHTING", 2, 1)
	dir := write(t, &Report{Catalog: mustCatalog(t, f), Rankings: &rank.Rankings{}})
	want := "NORMAL -> FIGHTING: 0.5\nFIGHTING -> NORMAL: 2\n"
	if got := read(t, dir, "types.txt"); got != want {
		t.Errorf("types.txt = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(dir, SummaryFile)); !os.IsNotExist(err) {
		t.Errorf("summary written without a summary: %v", err)
	}
}

func mustCatalog(t *testing.T, f *gmtest.File) *gamemaster.Catalog {
	t.Helper()
	r, err := gamemaster.Decode(f.Bytes(), gamemaster.Options{RatingThreshold: 1500})
	if err != nil {
		t.Fatal(err)
	}
	return r.Seal()
}

func TestWriteFailsOnUnencodableSummary(t *testing.T) {
	f := new(gmtest.File).
		Type(1, "NORMAL", 1.0).
		Creature(gmtest.CreatureSpec{Name: "TESTMON", ID: 1, Primary: 1, Attack: 100, Defense: 100, Stamina: 100,
			Fast: []uint64{10}, Charged: []uint64{20}}).
		Move(gmtest.MoveSpec{Name: "TACKLE_FAST", ID: 10, Type: 1, Power: float32(math.Inf(1)), DurationMS: 1000, Energy: 10}).
		Move(gmtest.MoveSpec{Name: "BODY_SLAM", ID: 20, Type: 1, Power: 50, DurationMS: 2000, Energy: -50})
	r := build(t, f, true)

	dir := filepath.Join(t.TempDir(), "out")
	err := r.Write(dir, nil)
	var uv *json.UnsupportedValueError
	if !errors.As(err, &uv) {
		t.Fatalf("Write err = %v, want a JSON encoding error", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SummaryFile)); !os.IsNotExist(err) {
		t.Errorf("summary written despite encoding failure: %v", err)
	}
}

func TestSummaryJSON(t *testing.T) {
	f := gmtest.Testmon().
		Move(gmtest.MoveSpec{Name: "LICK_FAST", ID: 11, Type: 1, Power: 5, DurationMS: 500, Energy: 6})
	dir := write(t, build(t, f, true,
		config.LegacyMove{Creature: "TESTMON", Move: "LICK_FAST"},
		config.LegacyMove{Creature: "TESTMON", Move: "NOPE"},
	))

	var got Summary
	if err := json.Unmarshal([]byte(read(t, dir, SummaryFile)), &got); err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(got.RunID); err != nil {
		t.Errorf("run id %q: %v", got.RunID, err)
	}
	want := Counts{Creatures: 1, Attacks: 3, Types: 1, LegacyApplied: 1, LegacyMissing: 1, Simulated: 2}
	if got.Counts != want {
		t.Errorf("counts = %+v, want %+v", got.Counts, want)
	}
	if got.Settings == nil || got.Settings.RoundLength != 2.5 || !got.Settings.Dodge {
		t.Errorf("settings = %+v", got.Settings)
	}
	for _, metric := range []string{"dps", "endurance", "reference"} {
		if len(got.Top[metric]) != 2 {
			t.Errorf("top %s = %+v", metric, got.Top[metric])
		}
	}
	if first := got.Top["dps"][0]; first.Creature != "TESTMON" || first.Charged != "BODY_SLAM" {
		t.Errorf("top dps = %+v", first)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{14.125, "14.125"},
		{1624.375, "1,624.375"},
		{21482359.375, "21,482,359.375"},
		{825.9992549, "825.999"},
		{-1234.5, "-1,234.5"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
