// Package portfolio holds the synthetic portfolio definitions: named sets
// of card-denominated stock positions. Definitions are configuration, not
// market data; they ship embedded and can be overridden with a YAML file.
package portfolio

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed portfolios.yaml
var embedded []byte

type Position struct {
	Symbol        string  `yaml:"symbol"`
	Shares        float64 `yaml:"shares"`
	PurchasePrice float64 `yaml:"purchasePrice"`
	Cards         int     `yaml:"cards"`
}

type Set struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Positions []Position `yaml:"positions"`
}

type Sets struct {
	sets []Set
}

type file struct {
	Sets []Set `yaml:"sets"`
}

// Load reads portfolio sets from path, or the embedded defaults when path
// is empty.
func Load(path string) (*Sets, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("portfolio: read %s: %w", path, err)
		}
		data = b
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("portfolio: parse: %w", err)
	}
	if len(f.Sets) == 0 {
		return nil, fmt.Errorf("portfolio: no sets defined")
	}
	for i := range f.Sets {
		f.Sets[i].ID = strings.ToLower(strings.TrimSpace(f.Sets[i].ID))
		if f.Sets[i].ID == "" {
			return nil, fmt.Errorf("portfolio: set %d has no id", i)
		}
		for j := range f.Sets[i].Positions {
			f.Sets[i].Positions[j].Symbol = strings.ToUpper(strings.TrimSpace(f.Sets[i].Positions[j].Symbol))
		}
	}
	return &Sets{sets: f.Sets}, nil
}

// Default returns the first defined set.
func (s *Sets) Default() Set { return s.sets[0] }

// Known reports whether id names a defined set.
func (s *Sets) Known(id string) bool {
	id = strings.ToLower(id)
	for _, set := range s.sets {
		if set.ID == id {
			return true
		}
	}
	return false
}

// Get returns the set with the given id, falling back to the default set
// for unknown or empty ids.
func (s *Sets) Get(id string) Set {
	id = strings.ToLower(id)
	for _, set := range s.sets {
		if set.ID == id {
			return set
		}
	}
	return s.Default()
}

// IDs returns the defined set ids in definition order.
func (s *Sets) IDs() []string {
	ids := make([]string, 0, len(s.sets))
	for _, set := range s.sets {
		ids = append(ids, set.ID)
	}
	return ids
}

// All returns every defined set in definition order.
func (s *Sets) All() []Set { return s.sets }

// Symbols returns the set's symbols upper-cased and deduplicated,
// preserving definition order.
func (s *Sets) Symbols(id string) []string {
	set := s.Get(id)
	seen := make(map[string]struct{}, len(set.Positions))
	out := make([]string, 0, len(set.Positions))
	for _, p := range set.Positions {
		if _, dup := seen[p.Symbol]; dup {
			continue
		}
		seen[p.Symbol] = struct{}{}
		out = append(out, p.Symbol)
	}
	return out
}
