package sched

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoLevels = errors.New("scheme has no levels")

// DefaultSchemeID is used when no scheme or an unknown scheme is selected.
const DefaultSchemeID = 2

// LevelSpec describes one level of a scheme.
type LevelSpec struct {
	Policy  string `yaml:"policy"`  // rr, sjf or stcf
	Quantum int    `yaml:"quantum"` // Round-Robin only
}

func (l LevelSpec) String() string {
	kind, err := ParsePolicyKind(l.Policy)
	if err != nil {
		return l.Policy
	}
	if kind == KindRoundRobin {
		return fmt.Sprintf("%s(%d)", kind, l.Quantum)
	}
	return kind.String()
}

// Scheme is an ordered list of level policies, highest priority first.
type Scheme struct {
	ID     int
	Name   string
	Levels []LevelSpec
}

func (s Scheme) String() string {
	parts := make([]string, len(s.Levels))
	for i, l := range s.Levels {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

// Build creates fresh levels for one simulation run.
func (s Scheme) Build() ([]Policy, error) {
	if len(s.Levels) == 0 {
		return nil, ErrNoLevels
	}
	levels := make([]Policy, 0, len(s.Levels))
	for i, l := range s.Levels {
		kind, err := ParsePolicyKind(l.Policy)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		p, err := NewPolicy(kind, l.Quantum)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		levels = append(levels, p)
	}
	return levels, nil
}

var namedSchemes = []Scheme{
	{ID: 1, Name: "scheme-1", Levels: []LevelSpec{{"rr", 1}, {"rr", 3}, {"rr", 4}, {"sjf", 0}}},
	{ID: 2, Name: "scheme-2", Levels: []LevelSpec{{"rr", 2}, {"rr", 3}, {"rr", 4}, {"stcf", 0}}},
	{ID: 3, Name: "scheme-3", Levels: []LevelSpec{{"rr", 3}, {"rr", 5}, {"rr", 6}, {"rr", 20}}},
}

// Schemes returns the built-in schemes in id order.
func Schemes() []Scheme {
	out := make([]Scheme, len(namedSchemes))
	for i, s := range namedSchemes {
		s.Levels = append([]LevelSpec(nil), s.Levels...)
		out[i] = s
	}
	return out
}

// SchemeByID looks up a built-in scheme.
func SchemeByID(id int) (Scheme, bool) {
	for _, s := range Schemes() {
		if s.ID == id {
			return s, true
		}
	}
	return Scheme{}, false
}
