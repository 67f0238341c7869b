package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/daikw/philofight/internal/session"
)

// Client frame types
const (
	frameStart      = "start"
	frameAddMessage = "add-message"
	frameControl    = "control"
)

// Control operations
const (
	controlMute    = "mute"
	controlUnmute  = "unmute"
	controlEndCall = "end-call"
)

type startFrame struct {
	Type        string     `json:"type"`
	SessionID   string     `json:"session_id,omitempty"`
	AssistantID string     `json:"assistant_id,omitempty"`
	SquadID     string     `json:"squad_id,omitempty"`
	Squad       *wireSquad `json:"squad,omitempty"`
}

type wireSquad struct {
	Name    string       `json:"name,omitempty"`
	Members []wireMember `json:"members"`
}

type wireMember struct {
	AssistantID           string            `json:"assistant_id"`
	AssistantDestinations []wireDestination `json:"assistant_destinations,omitempty"`
}

type wireDestination struct {
	Type          string `json:"type"`
	AssistantName string `json:"assistant_name"`
	Message       string `json:"message,omitempty"`
	Description   string `json:"description,omitempty"`
}

type addMessageFrame struct {
	Type    string          `json:"type"`
	Message session.Message `json:"message"`
}

type controlFrame struct {
	Type    string `json:"type"`
	Control string `json:"control"`
}

// serverFrame is the union of every frame the service sends
type serverFrame struct {
	Type           string  `json:"type"`
	Reason         string  `json:"reason,omitempty"`
	Level          float64 `json:"level,omitempty"`
	Role           string  `json:"role,omitempty"`
	Speaker        string  `json:"speaker,omitempty"`
	Transcript     string  `json:"transcript,omitempty"`
	TranscriptType string  `json:"transcript_type,omitempty"`
	Code           string  `json:"code,omitempty"`
	Message        string  `json:"message,omitempty"`
}

// buildStartFrame carries exactly one of assistant id, squad id or squad
func buildStartFrame(req session.StartRequest) (startFrame, error) {
	frame := startFrame{Type: frameStart, SessionID: req.SessionID}

	switch {
	case req.PersonaID != "":
		frame.AssistantID = req.PersonaID
	case req.SquadID != "":
		frame.SquadID = req.SquadID
	case req.Squad != nil && len(req.Squad.Members) > 0:
		squad := &wireSquad{Name: req.Squad.Name}
		for _, m := range req.Squad.Members {
			member := wireMember{AssistantID: m.PersonaID}
			for _, d := range m.Destinations {
				member.AssistantDestinations = append(member.AssistantDestinations, wireDestination{
					Type:          "assistant",
					AssistantName: d.TargetPersonaName,
					Message:       d.Message,
					Description:   d.Description,
				})
			}
			squad.Members = append(squad.Members, member)
		}
		frame.Squad = squad
	default:
		return startFrame{}, fmt.Errorf("start request names no persona or squad")
	}
	return frame, nil
}

// decodeServerFrame maps a text frame onto a session event and also
// returns the frame type. The event is nil for frames that carry nothing
// for the session: partial transcripts and unknown types.
func decodeServerFrame(data []byte) (session.Event, string, error) {
	var frame serverFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, "", fmt.Errorf("invalid server frame: %w", err)
	}

	var ev session.Event
	switch frame.Type {
	case "call-start":
		ev = session.CallStart{}
	case "call-end":
		ev = session.CallEnd{Reason: frame.Reason}
	case "speech-start":
		ev = session.SpeechStart{}
	case "speech-end":
		ev = session.SpeechEnd{}
	case "volume-level":
		ev = session.VolumeLevel{Level: frame.Level}
	case "transcript":
		if !strings.EqualFold(frame.TranscriptType, "partial") {
			ev = session.Transcript{
				Role:    frame.Role,
				Speaker: frame.Speaker,
				Text:    frame.Transcript,
			}
		}
	case "error":
		ev = session.ErrorEvent{Err: &session.VendorError{Code: frame.Code, Message: frame.Message}}
	case "":
		return nil, "", fmt.Errorf("server frame has no type")
	}
	return ev, frame.Type, nil
}
