// Package report renders rankings into the plain-text lists and the JSON
// summary written at the end of a run.
package report

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"pogodps/internal/gamemaster"
	"pogodps/internal/rank"
)

// Report holds everything a run produced. Every file is rendered from it.
type Report struct {
	Catalog  *gamemaster.Catalog
	Rankings *rank.Rankings
	Summary  *Summary
}

type file struct {
	name   string
	render func(r *Report, w io.Writer)
}

var files = []file{
	{"cplist.txt", creatureList(func(c *gamemaster.Creature) float64 { return c.MaxRating }, ": ")},
	{"tankiness.txt", creatureList(func(c *gamemaster.Creature) float64 { return c.Durability }, ":  ")},
	{"truestrength.txt", creatureList(func(c *gamemaster.Creature) float64 { return c.OverallPower }, ":  ")},
	{"moves.txt", (*Report).moves},
	{"types.txt", (*Report).types},
	{"pokemonlist.txt", (*Report).creatures},
	{"dpslist.txt", overall(rank.ByDPS, true)},
	{"truepowerlist.txt", overall(rank.ByEndurance, false)},
	{"referencelist.txt", overall(rank.ByReference, false)},
	{"bestDPSbyType.txt", byType(rank.ByDPS)},
	{"bestTruePowerByType.txt", byType(rank.ByEndurance)},
	{"bestReferenceByType.txt", byType(rank.ByReference)},
	{"bestDPSCounters.txt", counters(rank.ByDPS)},
	{"bestTruePowerCounters.txt", counters(rank.ByEndurance)},
	{"bestReferenceCounters.txt", counters(rank.ByReference)},
}

// Files lists the text reports in the order Write produces them.
func Files() []string {
	out := make([]string, 0, len(files)+1)
	for _, f := range files {
		out = append(out, f.name)
	}
	return append(out, SummaryFile)
}

// Write renders every report into dir, creating it when needed.
func (r *Report) Write(dir string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	var buf bytes.Buffer
	for _, f := range files {
		buf.Reset()
		f.render(r, &buf)
		if err := writeFile(dir, f.name, buf.Bytes()); err != nil {
			return err
		}
		log.Debug("report written", "file", f.name, "bytes", buf.Len())
	}
	if r.Summary != nil {
		b, err := MarshalPretty(r.Summary)
		if err != nil {
			return fmt.Errorf("encode %s: %w", SummaryFile, err)
		}
		if err := writeFile(dir, SummaryFile, b); err != nil {
			return err
		}
	}
	log.Info("reports written", "dir", dir, "files", len(files))
	return nil
}

func writeFile(dir, name string, b []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name), b, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func MarshalPretty(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Num formats a score with thousands separators and at most three decimals.
func Num(v float64) string { return humanize.CommafWithDigits(v, 3) }

// AttackName drops the _FAST suffix fast attacks carry in the game master.
func AttackName(a gamemaster.Attack) string {
	return strings.TrimSuffix(a.Name, "_FAST")
}

func creatureList(metric func(*gamemaster.Creature) float64, sep string) func(*Report, io.Writer) {
	return func(r *Report, w io.Writer) {
		cs := r.Catalog.Creatures()
		slices.SortStableFunc(cs, func(a, b gamemaster.Creature) int {
			return cmp.Compare(metric(&b), metric(&a))
		})
		for i := range cs {
			fmt.Fprintf(w, "%s%s%s\n", cs[i].Name, sep, Num(metric(&cs[i])))
		}
	}
}

func (r *Report) moves(w io.Writer) {
	fmt.Fprintf(w, "%-5s%-30s %-20s %-10s %-10s %-10s %-10s %-10s %-10s\n",
		"Id", "Name", "Type", "Power", "Energy", "Duration", "EPS", "DPS", "DPE")
	as := r.Catalog.Attacks()
	slices.SortStableFunc(as, func(a, b gamemaster.Attack) int { return strings.Compare(a.Name, b.Name) })
	for _, a := range as {
		fmt.Fprintf(w, "%-5d%-30s %-20s %-10g %-10d %-10g %-10.4g %-10.4g %-10.4g\n",
			a.ID, a.Name, r.Catalog.TypeName(a.Type), a.Power, a.Energy, a.Duration,
			a.EnergyPerSecond, a.DamagePerSecond, a.DamagePerEnergy)
	}
}

// types lists every attacking/defending pair whose multiplier is not neutral.
func (r *Report) types(w io.Writer) {
	ids := r.Catalog.TypeIDs()
	for _, atk := range ids {
		for _, def := range ids {
			if m := r.Catalog.Effectiveness(atk, def); m != 1 {
				fmt.Fprintf(w, "%s -> %s: %g\n", r.Catalog.TypeName(atk), r.Catalog.TypeName(def), m)
			}
		}
	}
}

func (r *Report) creatures(w io.Writer) {
	for _, c := range r.Catalog.Creatures() {
		fmt.Fprintf(w, "#%d %s (Type: %s, %s) (Max CP: %s, ATK: %d, DEF: %d, STA: %d)\n",
			c.ID, c.Name, r.Catalog.TypeName(c.Types[0]), r.Catalog.TypeName(c.Types[1]),
			Num(c.MaxRating), c.BaseAttack, c.BaseDefense, c.BaseStamina)
		for _, e := range rank.Sorted(r.Rankings.ByCreature[c.ID], rank.ByDPS) {
			fmt.Fprintf(w, "%s : %s (%s)%s\n", r.moveset(e), Num(e.ScaledRate), Num(e.RawRate), marks(e))
		}
		fmt.Fprintln(w)
	}
}

func overall(m rank.Metric, withRaw bool) func(*Report, io.Writer) {
	return func(r *Report, w io.Writer) {
		for _, e := range rank.Sorted(r.Rankings.Overall, m) {
			r.entry(w, e, m, withRaw)
		}
	}
}

func byType(m rank.Metric) func(*Report, io.Writer) {
	return func(r *Report, w io.Writer) {
		for _, t := range sortedKeys(r.Rankings.ByType, cmp.Compare[int]) {
			fmt.Fprintf(w, "Best attackers of %s type:\n\n", r.Catalog.TypeName(t))
			for _, e := range rank.Sorted(r.Rankings.ByType[t], m) {
				r.entry(w, e, m, false)
			}
			fmt.Fprint(w, "\n\n")
		}
	}
}

func counters(m rank.Metric) func(*Report, io.Writer) {
	return func(r *Report, w io.Writer) {
		for _, p := range sortedKeys(r.Rankings.Counters, comparePairs) {
			fmt.Fprintf(w, "Best counters of %s-%s\n", r.Catalog.TypeName(p.First), r.Catalog.TypeName(p.Second))
			for _, e := range rank.Sorted(r.Rankings.Counters[p], m) {
				r.entry(w, e, m, false)
			}
			fmt.Fprint(w, "\n\n")
		}
	}
}

func (r *Report) entry(w io.Writer, e rank.RankedEntry, m rank.Metric, withRaw bool) {
	c := r.Catalog.Creature(e.CreatureID)
	fmt.Fprintf(w, "%s: %s : %s", c.Name, r.moveset(e), Num(m.Value(&e)))
	if withRaw {
		fmt.Fprintf(w, " (%s)", Num(e.RawRate))
	}
	fmt.Fprintf(w, "%s\n", marks(e))
}

func (r *Report) moveset(e rank.RankedEntry) string {
	fast, _ := r.Catalog.Attack(e.FastAttackID)
	charged, _ := r.Catalog.Attack(e.ChargedAttackID)
	return AttackName(fast) + " + " + AttackName(charged)
}

func marks(e rank.RankedEntry) string {
	var s string
	if e.IsLegacy {
		s += " (legacy)"
	}
	if !e.CanDodge {
		s += " (no dodge)"
	}
	return s
}

func comparePairs(a, b rank.TypePair) int {
	return cmp.Or(cmp.Compare(a.First, b.First), cmp.Compare(a.Second, b.Second))
}

func sortedKeys[K comparable, V any](m map[K]V, compare func(a, b K) int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compare)
	return keys
}
