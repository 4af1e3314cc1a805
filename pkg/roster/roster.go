package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed monsters.yaml
var defaultRosterYAML []byte

var (
	ErrEmptyRoster = errors.New("roster has no monsters")
	ErrInvalidHP   = errors.New("monster total_hp must be positive")
	ErrInvalidID   = errors.New("monster id must be positive")
	ErrDuplicateID = errors.New("duplicate monster id")
)

var (
	defaultRoster    *Roster
	defaultRosterErr error
)

// Monster is one fixed encounter in the roster.
// Description, Icon and Color are display metadata only.
type Monster struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	TotalHP     int    `yaml:"total_hp" json:"total_hp"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Roster is the ordered, immutable sequence of monster encounters.
type Roster struct {
	monsters []Monster
	totalHP  int
}

type rosterFile struct {
	Monsters []Monster `yaml:"monsters"`
}

func init() {
	defaultRoster, defaultRosterErr = Parse(defaultRosterYAML)
}

// Default returns the reference roster embedded in the binary.
// It panics if the embedded document is invalid, which is a build defect.
func Default() *Roster {
	if defaultRosterErr != nil {
		panic(fmt.Sprintf("invalid embedded roster: %v", defaultRosterErr))
	}
	return defaultRoster
}

// New validates the monsters and builds a roster from a copy of them.
func New(monsters []Monster) (*Roster, error) {
	if len(monsters) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[int]struct{}, len(monsters))
	total := 0
	for i, m := range monsters {
		if m.ID <= 0 {
			return nil, fmt.Errorf("monster %d (%q): %w", i, m.Name, ErrInvalidID)
		}
		if m.TotalHP <= 0 {
			return nil, fmt.Errorf("monster %d (%q): %w", m.ID, m.Name, ErrInvalidHP)
		}
		if _, ok := seen[m.ID]; ok {
			return nil, fmt.Errorf("monster %d (%q): %w", m.ID, m.Name, ErrDuplicateID)
		}
		seen[m.ID] = struct{}{}
		total += m.TotalHP
	}

	list := make([]Monster, len(monsters))
	copy(list, monsters)
	return &Roster{monsters: list, totalHP: total}, nil
}

// Parse decodes a YAML roster document.
func Parse(data []byte) (*Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return New(f.Monsters)
}

// Load reads a YAML roster document from r.
func Load(r io.Reader) (*Roster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(data)
}

// List returns the monsters in encounter order. The slice is a copy.
func (r *Roster) List() []Monster {
	list := make([]Monster, len(r.monsters))
	copy(list, r.monsters)
	return list
}

// At returns the monster at index. ok is false when index is outside the
// roster, which callers treat as overall completion.
func (r *Roster) At(index int) (m Monster, ok bool) {
	if index < 0 || index >= len(r.monsters) {
		return Monster{}, false
	}
	return r.monsters[index], true
}

// IsLast reports whether index is the final encounter.
func (r *Roster) IsLast(index int) bool {
	return index == len(r.monsters)-1
}

func (r *Roster) Len() int {
	return len(r.monsters)
}

// TotalHP is the sum of every monster's HP, used as the completion goal.
func (r *Roster) TotalHP() int {
	return r.totalHP
}
