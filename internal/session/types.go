package session

import (
	"fmt"
	"time"
)

// Phase is the connection phase of an adapter
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseConnected  Phase = "connected"
	PhaseError      Phase = "error"
)

// Transcript roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// SessionConfig selects who the vendor should put on the call.
// Exactly one of the three fields must be set.
type SessionConfig struct {
	PersonaID string `json:"personaId,omitempty"`
	SquadID   string `json:"squadId,omitempty"`
	Squad     *Squad `json:"squad,omitempty"`
}

// Squad is an inline multi-persona group
type Squad struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// Member is one persona of a squad together with its hand-off edges
type Member struct {
	PersonaID    string        `json:"personaId"`
	Destinations []Destination `json:"destinations,omitempty"`
}

// Destination is a directed hand-off edge to another persona of the squad
type Destination struct {
	TargetPersonaName string `json:"targetPersonaName"`
	Message           string `json:"message,omitempty"`
	Description       string `json:"description,omitempty"`
}

// Validate checks that exactly one form of configuration is supplied.
func (c SessionConfig) Validate() error {
	supplied := 0
	if c.PersonaID != "" {
		supplied++
	}
	if c.SquadID != "" {
		supplied++
	}
	if c.Squad != nil && len(c.Squad.Members) > 0 {
		supplied++
	}

	switch {
	case supplied == 0:
		return fmt.Errorf("no valid configuration provided")
	case supplied > 1:
		return fmt.Errorf("conflicting configuration: supply only one of persona id, squad id or inline squad")
	}
	return nil
}

// Kind describes which form of configuration is set
func (c SessionConfig) Kind() string {
	switch {
	case c.PersonaID != "":
		return "persona"
	case c.SquadID != "":
		return "squad_id"
	case c.Squad != nil:
		return "squad"
	default:
		return "none"
	}
}

// TranscriptEntry is one line of the conversation
type TranscriptEntry struct {
	Speaker string    `json:"speaker"`
	Role    string    `json:"role"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// State is an immutable snapshot of an adapter
type State struct {
	SessionID   string
	Phase       Phase
	Err         string
	Category    Category
	Speaker     string
	Muted       bool
	Speaking    bool
	Volume      float64
	Attempts    int
	MaxAttempts int
	Transcript  []TranscriptEntry
}

// Callbacks are the only way the adapter talks to its caller.
// Nil callbacks are skipped.
type Callbacks struct {
	OnConnect       func()
	OnDisconnect    func()
	OnError         func(category Category, message string)
	OnSpeechStart   func()
	OnSpeechEnd     func()
	OnVolumeLevel   func(level float64)
	OnSpeakerChange func(persona string)
	OnMessage       func(entry TranscriptEntry)
}
