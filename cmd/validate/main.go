package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"gopkg.in/yaml.v3"
)

const usage = `Usage:
  %[1]s roster <monsters.yaml>          check a roster file
  %[1]s save <state.json> [roster.yaml] check a saved game against a roster
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "roster":
		err = validateRosterFile(os.Args[2])
	case "save":
		rosterFile := ""
		if len(os.Args) > 3 {
			rosterFile = os.Args[3]
		}
		err = validateSaveFile(os.Args[2], rosterFile)
	default:
		fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
}

func validateRosterFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("roster file must have .yaml extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	r, err := parseRosterStrict(data)
	if err != nil {
		return err
	}

	for _, w := range rosterWarnings(r) {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Printf("Roster is valid: %d monsters, %d total HP\n", r.Len(), r.TotalHP())
	return nil
}

// parseRosterStrict rejects unknown keys before the usual roster checks.
func parseRosterStrict(data []byte) (*roster.Roster, error) {
	var doc struct {
		Monsters []roster.Monster `yaml:"monsters"`
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed strict YAML decoding: %w", err)
	}
	return roster.New(doc.Monsters)
}

// rosterWarnings lists things that are allowed but probably mistakes.
func rosterWarnings(r *roster.Roster) []string {
	var warnings []string
	prevHP := 0
	for i, m := range r.List() {
		if strings.TrimSpace(m.Name) == "" {
			warnings = append(warnings, fmt.Sprintf("monster %d has no name", m.ID))
		}
		if m.TotalHP < prevHP {
			warnings = append(warnings, fmt.Sprintf("monster %d (%s) is weaker than the one before it", m.ID, m.Name))
		}
		if i > 0 && m.ID != r.List()[i-1].ID+1 {
			warnings = append(warnings, fmt.Sprintf("monster ids are not consecutive at %d", m.ID))
		}
		prevHP = m.TotalHP
	}
	return warnings
}

func validateSaveFile(filename, rosterFile string) error {
	fmt.Printf("Validating %s...\n", filename)

	r := roster.Default()
	if rosterFile != "" {
		data, err := os.ReadFile(rosterFile)
		if err != nil {
			return fmt.Errorf("failed to read roster %s: %w", rosterFile, err)
		}
		if r, err = roster.Parse(data); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	gs, repairs := state.Migrate(data, r, time.Now())
	if len(repairs) > 0 {
		return fmt.Errorf("fields would be reset on load: %s", strings.Join(repairs, ", "))
	}

	if logged := gs.LoggedDeficit(); len(gs.Logs) > 0 && logged != gs.TotalDeficit {
		fmt.Printf("warning: totalDeficit %d does not match the %d logged days (sum %d)\n", gs.TotalDeficit, len(gs.Logs), logged)
	}

	fmt.Printf("Save is valid: monster %d of %d, %d days logged, completed=%t\n",
		gs.CurrentMonsterIndex+1, r.Len(), len(gs.Logs), gs.IsCompleted(r))
	return nil
}
