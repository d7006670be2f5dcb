package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load returns the defaults overlaid with the YAML file at path, if any.
func Load(path string) (*Settings, error) {
	s := Default()
	if path != "" {
		if err := loadYAML(path, s); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	return s, nil
}

// LoadLists reads ExcludedFile and LegacyFile and appends their entries.
func (s *Settings) LoadLists() error {
	if s.ExcludedFile != "" {
		names, err := LoadNames(s.ExcludedFile)
		if err != nil {
			return err
		}
		s.Excluded = append(s.Excluded, names...)
	}
	if s.LegacyFile != "" {
		moves, err := LoadLegacyMoves(s.LegacyFile)
		if err != nil {
			return err
		}
		s.Legacy = append(s.Legacy, moves...)
	}
	return nil
}

// readLines returns trimmed, non-empty lines with '#' comments removed.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// LoadNames reads one creature name per line.
func LoadNames(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	for i, l := range lines {
		lines[i] = strings.ToUpper(l)
	}
	return lines, nil
}

// LoadLegacyMoves reads "CREATURE MOVE" or "CREATURE,MOVE" pairs, one per line.
func LoadLegacyMoves(path string) ([]LegacyMove, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	out := make([]LegacyMove, 0, len(lines))
	for n, l := range lines {
		parts := strings.FieldsFunc(l, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s: entry %d %q: want CREATURE MOVE", path, n+1, l)
		}
		out = append(out, LegacyMove{
			Creature: strings.ToUpper(parts[0]),
			Move:     strings.ToUpper(parts[1]),
		})
	}
	return out, nil
}
