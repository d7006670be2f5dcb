package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pogodps/internal/combat"
	"pogodps/internal/config"
	"pogodps/internal/gamemaster"
	"pogodps/internal/rank"
	"pogodps/internal/report"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

var errNoInput = errors.New("no game master file given")

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type flags struct {
	cfgPath, in string
	s           config.Settings
	verbose     bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *flag.FlagSet, error) {
	var f flags
	d := config.Default()
	fs := flag.NewFlagSet("pogodps", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pogodps [flags] GAME_MASTER")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.cfgPath, "config", "", "YAML settings file")
	fs.StringVar(&f.in, "in", "", "game master file (or first argument)")
	fs.StringVar(&f.s.OutDir, "out", d.OutDir, "report directory")
	fs.Float64Var(&f.s.RoundLength, "round", d.RoundLength, "opponent attack interval in seconds")
	fs.Float64Var(&f.s.LifeTime, "life", d.LifeTime, "expected survival time in seconds")
	fs.Float64Var(&f.s.BattleTime, "battle", d.BattleTime, "simulated battle length in seconds")
	fs.Float64Var(&f.s.ReferenceRating, "rating", d.ReferenceRating, "reference combat rating")
	fs.BoolVar(&f.s.Dodge, "dodge", d.Dodge, "dodge every opponent attack")
	fs.StringVar(&f.s.Highlight, "highlight", "", "creature whose rotations are traced")
	fs.StringVar(&f.s.ExcludedFile, "excluded-file", "", "file of excluded creature names")
	fs.StringVar(&f.s.LegacyFile, "legacy-file", "", "file of CREATURE MOVE legacy pairs")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if f.in == "" {
		f.in = fs.Arg(0)
	}
	return &f, fs, nil
}

// settings layers explicitly set flags over the configuration file.
func (f *flags) settings(fs *flag.FlagSet) (*config.Settings, error) {
	s, err := config.Load(f.cfgPath)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "out":
			s.OutDir = f.s.OutDir
		case "round":
			s.RoundLength = f.s.RoundLength
		case "life":
			s.LifeTime = f.s.LifeTime
		case "battle":
			s.BattleTime = f.s.BattleTime
		case "rating":
			s.ReferenceRating = f.s.ReferenceRating
		case "dodge":
			s.Dodge = f.s.Dodge
		case "highlight":
			s.Highlight = f.s.Highlight
		case "excluded-file":
			s.ExcludedFile = f.s.ExcludedFile
		case "legacy-file":
			s.LegacyFile = f.s.LegacyFile
		}
	})
	if err := s.LoadLists(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func run(args []string, stderr io.Writer) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if f.in == "" {
		log.Error("cannot start", "err", errNoInput)
		fs.Usage()
		return exitUsage
	}
	s, err := f.settings(fs)
	if err != nil {
		log.Error("bad configuration", "err", err)
		return exitFatal
	}
	if err := pipeline(f.in, s, log); err != nil {
		log.Error("run failed", "input", f.in, "err", err)
		return exitFatal
	}
	return exitOK
}

func pipeline(path string, s *config.Settings, log *slog.Logger) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	roster, err := gamemaster.Decode(buf, gamemaster.Options{
		RatingThreshold: s.ReferenceRating,
		Excluded:        s.ExcludedSet(),
		Logger:          log,
	})
	if err != nil {
		return err
	}
	legacy := roster.InjectLegacy(s.Legacy, log)
	cat := roster.Seal()

	rk, err := rank.Run(cat, combat.ParamsFrom(s), rank.Options{Highlight: s.Highlight, Logger: log})
	if err != nil {
		return err
	}
	rep := &report.Report{
		Catalog:  cat,
		Rankings: rk,
		Summary:  report.NewSummary(s, cat, rk, roster.Skipped, legacy),
	}
	if err := rep.Write(s.OutDir, log); err != nil {
		return err
	}
	log.Info("done", "run_id", rep.Summary.RunID, "out", s.OutDir, "movesets", rk.Simulated)
	return nil
}
