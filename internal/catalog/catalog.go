// Package catalog holds the read-only list of philosophers and debates and
// turns a debate into the session configuration the voice service expects.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/daikw/philofight/internal/session"
)

// Catalog is an immutable set of philosophers and debates
type Catalog struct {
	philosophers []Philosopher
	debates      []Debate
	byID         map[string]int
	debateByID   map[string]int
}

// New builds a catalog from the given entries. Later duplicates win.
func New(philosophers []Philosopher, debates []Debate) *Catalog {
	c := &Catalog{
		philosophers: philosophers,
		debates:      debates,
		byID:         make(map[string]int, len(philosophers)),
		debateByID:   make(map[string]int, len(debates)),
	}
	for i, p := range philosophers {
		c.byID[p.ID] = i
	}
	for i, d := range debates {
		c.debateByID[d.ID] = i
	}
	return c
}

// Default returns the built-in catalog
func Default() *Catalog {
	return New(builtinPhilosophers(), builtinDebates())
}

// Load reads a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	cat := New(file.Philosophers, file.Debates)
	if problems := cat.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid catalog %s: %s", path, strings.Join(problems, "; "))
	}

	log.Debug().
		Str("path", path).
		Int("philosophers", len(file.Philosophers)).
		Int("debates", len(file.Debates)).
		Msg("Loaded catalog")
	return cat, nil
}

// Validate reports broken references. Hand-off graphs are not checked:
// destinations may form cycles.
func (c *Catalog) Validate() []string {
	var problems []string

	for _, p := range c.philosophers {
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("philosopher %q has no id", p.Name))
		}
	}

	for _, d := range c.debates {
		if d.ID == "" {
			problems = append(problems, fmt.Sprintf("debate %q has no id", d.Title))
			continue
		}
		if d.PersonaID != "" && d.IsSquad() {
			problems = append(problems, fmt.Sprintf("debate %s: set either personaId or a squad, not both", d.ID))
		}
		if d.PersonaID == "" && !d.IsSquad() {
			problems = append(problems, fmt.Sprintf("debate %s: no persona or squad", d.ID))
		}
		if d.PersonaID != "" {
			if _, ok := c.byID[d.PersonaID]; !ok {
				problems = append(problems, fmt.Sprintf("debate %s: unknown persona %q", d.ID, d.PersonaID))
			}
		}
		if d.Squad != nil {
			if len(d.Squad.Members) == 0 {
				problems = append(problems, fmt.Sprintf("debate %s: squad has no members", d.ID))
			}
			for _, m := range d.Squad.Members {
				if _, ok := c.byID[m.PersonaID]; !ok {
					problems = append(problems, fmt.Sprintf("debate %s: unknown squad member %q", d.ID, m.PersonaID))
				}
			}
		}
	}

	return problems
}

// Philosophers returns all philosophers in catalog order
func (c *Catalog) Philosophers() []Philosopher {
	return append([]Philosopher(nil), c.philosophers...)
}

// Debates returns all debates in catalog order
func (c *Catalog) Debates() []Debate {
	return append([]Debate(nil), c.debates...)
}

// Philosopher looks a philosopher up by id
func (c *Catalog) Philosopher(id string) (Philosopher, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Philosopher{}, false
	}
	return c.philosophers[i], true
}

// PhilosopherByName looks a philosopher up by display name, ignoring case
func (c *Catalog) PhilosopherByName(name string) (Philosopher, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for _, p := range c.philosophers {
		if fold.String(p.Name) == want {
			return p, true
		}
	}
	return Philosopher{}, false
}

// Resolve finds a philosopher by id first, then by display name
func (c *Catalog) Resolve(ref string) (Philosopher, bool) {
	if p, ok := c.Philosopher(ref); ok {
		return p, true
	}
	return c.PhilosopherByName(ref)
}

// Debate looks a debate up by id
func (c *Catalog) Debate(id string) (Debate, bool) {
	i, ok := c.debateByID[id]
	if !ok {
		return Debate{}, false
	}
	return c.debates[i], true
}

// DebateBySquadID finds the debate backed by a vendor-side squad
func (c *Catalog) DebateBySquadID(squadID string) (Debate, bool) {
	if squadID == "" {
		return Debate{}, false
	}
	for _, d := range c.debates {
		if d.SquadID == squadID {
			return d, true
		}
	}
	return Debate{}, false
}

// Search returns debates whose title, topic, category or participant names
// contain query, ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []Debate {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return c.Debates()
	}

	var matches []Debate
	for _, d := range c.debates {
		fields := []string{d.Title, d.Topic, d.Category, d.Description}
		for _, id := range d.PersonaIDs() {
			if p, ok := c.Philosopher(id); ok {
				fields = append(fields, p.Name)
			}
		}
		for _, field := range fields {
			if strings.Contains(fold.String(field), q) {
				matches = append(matches, d)
				break
			}
		}
	}
	return matches
}

// ByCategory returns debates in the given category, ignoring case
func (c *Catalog) ByCategory(category string) []Debate {
	var matches []Debate
	for _, d := range c.debates {
		if strings.EqualFold(d.Category, category) {
			matches = append(matches, d)
		}
	}
	return matches
}

// Categories returns the distinct categories in sorted order
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, d := range c.debates {
		if d.Category != "" && !seen[d.Category] {
			seen[d.Category] = true
			categories = append(categories, d.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// SessionConfig builds the configuration for joining a debate. A hosted
// squad id is preferred over the inline lineup.
func (c *Catalog) SessionConfig(debateID string) (session.SessionConfig, error) {
	d, ok := c.Debate(debateID)
	if !ok {
		return session.SessionConfig{}, fmt.Errorf("debate '%s' does not exist", debateID)
	}

	switch {
	case d.PersonaID != "":
		return session.SessionConfig{PersonaID: d.PersonaID}, nil
	case d.SquadID != "":
		return session.SessionConfig{SquadID: d.SquadID}, nil
	case d.Squad != nil:
		squad := *d.Squad
		squad.Members = append([]session.Member(nil), d.Squad.Members...)
		return session.SessionConfig{Squad: &squad}, nil
	}
	return session.SessionConfig{}, fmt.Errorf("debate '%s' has no persona or squad", debateID)
}
