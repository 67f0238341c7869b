package session

import (
	"context"
	"fmt"
)

// Vendor opens calls with a hosted voice service
type Vendor interface {
	// Open starts a call. It must not block on the network: completion is
	// reported later through a CallStart or ErrorEvent on handle.
	Open(ctx context.Context, req StartRequest, handle EventHandler) (Call, error)
}

// Call is a live vendor call
type Call interface {
	Send(msg Message) error
	SetMuted(muted bool) error
	// Close ends the call and returns once no further events can be
	// delivered. It must not be called from the call's own EventHandler.
	Close() error
}

// EventHandler receives vendor events in delivery order
type EventHandler func(Event)

// StartRequest carries exactly one of PersonaID, SquadID or Squad.
type StartRequest struct {
	SessionID string
	PublicKey string
	PersonaID string
	SquadID   string
	Squad     *Squad
}

// Message is injected into a running call
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Event is a normalized vendor event
type Event interface {
	eventName() string
}

// CallStart reports that the call is live
type CallStart struct{}

// CallEnd reports that the vendor ended the call
type CallEnd struct {
	Reason string
}

// SpeechStart reports that an assistant started speaking
type SpeechStart struct{}

// SpeechEnd reports that an assistant stopped speaking
type SpeechEnd struct{}

// VolumeLevel carries the latest output volume
type VolumeLevel struct {
	Level float64
}

// Transcript carries a finished utterance
type Transcript struct {
	Role    string
	Speaker string
	Text    string
}

// ErrorEvent carries a vendor failure
type ErrorEvent struct {
	Err error
}

func (CallStart) eventName() string   { return "call-start" }
func (CallEnd) eventName() string     { return "call-end" }
func (SpeechStart) eventName() string { return "speech-start" }
func (SpeechEnd) eventName() string   { return "speech-end" }
func (VolumeLevel) eventName() string { return "volume-level" }
func (Transcript) eventName() string  { return "transcript" }
func (ErrorEvent) eventName() string  { return "error" }

// EventName returns the wire-style name of an event, "unknown" for nil.
func EventName(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return ev.eventName()
}

// VendorError is a structured failure reported by a vendor
type VendorError struct {
	Code    string
	Message string
}

func (e *VendorError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
