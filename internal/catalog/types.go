package catalog

import "github.com/daikw/philofight/internal/session"

// Philosopher is a persona that can take part in a debate
type Philosopher struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Era       string   `json:"era,omitempty"`
	School    string   `json:"school,omitempty"`
	Quote     string   `json:"quote,omitempty"`
	Voice     *Voice   `json:"voice,omitempty"`
	Responses []string `json:"responses,omitempty"`
}

// Voice selects how a philosopher sounds when lines are synthesized locally
type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// Debate is a listed session. It names a single persona or a squad, either
// by vendor-side id, inline, or both (the inline lineup then describes the
// hosted squad for offline use).
type Debate struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	PersonaID   string         `json:"personaId,omitempty"`
	SquadID     string         `json:"squadId,omitempty"`
	Squad       *session.Squad `json:"squad,omitempty"`
}

// IsSquad reports whether the debate puts more than one persona on the call
func (d Debate) IsSquad() bool {
	return d.SquadID != "" || d.Squad != nil
}

// PersonaIDs lists every persona taking part, in lineup order
func (d Debate) PersonaIDs() []string {
	if d.PersonaID != "" {
		return []string{d.PersonaID}
	}
	if d.Squad == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Squad.Members))
	for _, m := range d.Squad.Members {
		ids = append(ids, m.PersonaID)
	}
	return ids
}

// File is the on-disk catalog format
type File struct {
	Philosophers []Philosopher `json:"philosophers"`
	Debates      []Debate      `json:"debates"`
}
