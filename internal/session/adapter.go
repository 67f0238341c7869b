// Package session wraps a hosted real-time voice service behind a small,
// testable lifecycle: one call at a time, a connect timeout, an attempt
// ceiling and a normalized event/callback contract.
package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultMaxAttempts    = 3
)

// Timer is the part of *time.Timer the adapter needs
type Timer interface {
	Stop() bool
}

// Options configures an Adapter
type Options struct {
	PublicKey      string
	ConnectTimeout time.Duration
	MaxAttempts    int
	Callbacks      Callbacks
	Logger         *zerolog.Logger

	// AfterFunc arms the connect timeout. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer
}

// Adapter owns the lifecycle of one voice call
type Adapter struct {
	vendor      Vendor
	publicKey   string
	timeout     time.Duration
	maxAttempts int
	callbacks   Callbacks
	logger      zerolog.Logger
	afterFunc   func(time.Duration, func()) Timer

	mu         sync.Mutex
	id         string
	phase      Phase
	err        string
	category   Category
	speaker    string
	muted      bool
	speaking   bool
	volume     float64
	attempts   int
	transcript []TranscriptEntry
	call       Call
	timer      Timer

	// gen identifies the current call; events tagged with an older gen are dropped.
	gen uint64
	// detached is set when the connect timeout fired for the current gen.
	detached bool

	// dispatching counts vendor events being handled. Calls are closed in
	// the background while it is non-zero, since a callback may be running
	// on the goroutine that Close waits for.
	dispatching atomic.Int32
}

// New creates an adapter in the idle phase
func New(vendor Vendor, opts Options) *Adapter {
	a := &Adapter{
		vendor:      vendor,
		publicKey:   opts.PublicKey,
		timeout:     opts.ConnectTimeout,
		maxAttempts: opts.MaxAttempts,
		callbacks:   opts.Callbacks,
		afterFunc:   opts.AfterFunc,
		id:          uuid.NewString(),
		phase:       PhaseIdle,
	}
	if a.timeout <= 0 {
		a.timeout = DefaultConnectTimeout
	}
	if a.maxAttempts <= 0 {
		a.maxAttempts = DefaultMaxAttempts
	}
	if a.afterFunc == nil {
		a.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if opts.Logger != nil {
		a.logger = *opts.Logger
	} else {
		a.logger = log.Logger.With().Str("component", "session").Logger()
	}
	return a
}

// Connect validates cfg and the credential, then asks the vendor to open a
// call. Failures never return: they land in the Error phase and OnError.
func (a *Adapter) Connect(ctx context.Context, cfg SessionConfig) {
	a.mu.Lock()

	if a.phase == PhaseConnecting || a.phase == PhaseConnected {
		a.logger.Warn().Str("phase", string(a.phase)).Msg("Connect ignored: session already active")
		a.mu.Unlock()
		return
	}
	if !IsConfiguredKey(a.publicKey) {
		notify := a.failLocked(CategoryConfiguration, msgNotConfigured)
		a.mu.Unlock()
		notify()
		return
	}
	if err := cfg.Validate(); err != nil {
		notify := a.failLocked(CategoryConfiguration, err.Error())
		a.mu.Unlock()
		notify()
		return
	}
	if a.attempts >= a.maxAttempts {
		a.logger.Warn().
			Int("attempts", a.attempts).
			Int("max_attempts", a.maxAttempts).
			Msg("Connect ignored: attempt limit reached")
		a.mu.Unlock()
		return
	}

	if a.phase == PhaseIdle {
		a.id = uuid.NewString()
		a.transcript = nil
	}
	a.attempts++
	a.err, a.category = "", CategoryNone
	a.setPhaseLocked(PhaseConnecting)

	a.gen++
	gen := a.gen
	stale := a.call
	a.call = nil
	a.detached = false
	a.stopTimerLocked()
	a.timer = a.afterFunc(a.timeout, func() { a.onTimeout(gen) })

	req := StartRequest{
		SessionID: a.id,
		PublicKey: a.publicKey,
		PersonaID: cfg.PersonaID,
		SquadID:   cfg.SquadID,
		Squad:     cfg.Squad,
	}
	logger := a.logger.With().Str("session_id", a.id).Int("attempt", a.attempts).Logger()
	a.mu.Unlock()

	if stale != nil {
		a.closeCall(stale, logger, "Failed to close stale call")
	}

	logger.Debug().Str("config", cfg.Kind()).Msg("Opening vendor call")
	call, err := a.vendor.Open(ctx, req, func(ev Event) { a.handleEvent(gen, ev) })

	a.mu.Lock()
	if gen != a.gen {
		// Disconnected or reset while the vendor was opening.
		a.mu.Unlock()
		if call != nil {
			a.closeCall(call, logger, "Failed to close superseded call")
		}
		return
	}
	if err != nil {
		notify := a.vendorFailureLocked(err)
		a.mu.Unlock()
		notify()
		return
	}
	if a.phase != PhaseIdle {
		a.call = call
	}
	a.mu.Unlock()
}

// Disconnect ends the current call and resets all state. It is a no-op
// when no call is held.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	call := a.call
	if call == nil {
		a.logger.Debug().Msg("Disconnect ignored: no active call")
		a.mu.Unlock()
		return
	}
	a.resetLocked()
	a.mu.Unlock()

	a.closeCall(call, a.logger, "Vendor call did not close cleanly")
	if cb := a.callbacks.OnDisconnect; cb != nil {
		cb()
	}
}

// Reset returns the adapter to its initial state whether or not a call is
// held. It re-arms an adapter that reached the attempt limit.
func (a *Adapter) Reset() {
	a.mu.Lock()
	call := a.call
	a.resetLocked()
	a.mu.Unlock()

	if call == nil {
		return
	}
	a.closeCall(call, a.logger, "Vendor call did not close cleanly")
	if cb := a.callbacks.OnDisconnect; cb != nil {
		cb()
	}
}

// SendMessage injects text into the live call. Outside the Connected phase
// it only logs a warning; there is no acknowledgment either way.
func (a *Adapter) SendMessage(text string) {
	a.mu.Lock()
	call, phase := a.call, a.phase
	a.mu.Unlock()

	if phase != PhaseConnected || call == nil {
		a.logger.Warn().Str("phase", string(phase)).Msg("Message dropped: not connected")
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	if err := call.Send(Message{Role: RoleSystem, Content: text}); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to send message")
	}
}

// Mute silences the microphone on the live call
func (a *Adapter) Mute() { a.setMuted(true) }

// Unmute re-enables the microphone on the live call
func (a *Adapter) Unmute() { a.setMuted(false) }

func (a *Adapter) setMuted(muted bool) {
	a.mu.Lock()
	call, phase := a.call, a.phase
	a.mu.Unlock()

	if phase != PhaseConnected || call == nil {
		a.logger.Debug().Bool("muted", muted).Str("phase", string(phase)).Msg("Mute ignored: not connected")
		return
	}
	if err := call.SetMuted(muted); err != nil {
		a.logger.Warn().Err(err).Bool("muted", muted).Msg("Vendor rejected mute change")
		return
	}

	a.mu.Lock()
	if a.call == call {
		a.muted = muted
	}
	a.mu.Unlock()
}

// CanRetry reports whether a failed session may be retried with Connect
func (a *Adapter) CanRetry() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase == PhaseError && a.attempts < a.maxAttempts
}

// State returns a snapshot of the adapter
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		SessionID:   a.id,
		Phase:       a.phase,
		Err:         a.err,
		Category:    a.category,
		Speaker:     a.speaker,
		Muted:       a.muted,
		Speaking:    a.speaking,
		Volume:      a.volume,
		Attempts:    a.attempts,
		MaxAttempts: a.maxAttempts,
		Transcript:  append([]TranscriptEntry(nil), a.transcript...),
	}
}

// Transcript returns a copy of the transcript log
func (a *Adapter) Transcript() []TranscriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]TranscriptEntry(nil), a.transcript...)
}

func (a *Adapter) onTimeout(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.phase != PhaseConnecting {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.detached = true
	a.logger.Warn().Dur("timeout", a.timeout).Msg("Call did not start in time")
	notify := a.failLocked(CategoryTimeout, msgTimeout)
	a.mu.Unlock()
	notify()
}

func (a *Adapter) handleEvent(gen uint64, ev Event) {
	a.dispatching.Add(1)
	defer a.dispatching.Add(-1)

	a.mu.Lock()
	if gen != a.gen || a.detached {
		a.logger.Debug().Str("event", EventName(ev)).Msg("Dropping event from inactive call")
		a.mu.Unlock()
		return
	}

	var notify []func()
	cb := a.callbacks

	switch e := ev.(type) {
	case CallStart:
		a.stopTimerLocked()
		if !a.setPhaseLocked(PhaseConnected) {
			break
		}
		a.err, a.category = "", CategoryNone
		a.attempts = 0
		a.logger.Info().Str("session_id", a.id).Msg("Call started")
		if cb.OnConnect != nil {
			notify = append(notify, cb.OnConnect)
		}

	case CallEnd:
		if a.phase == PhaseIdle {
			break
		}
		a.stopTimerLocked()
		a.setPhaseLocked(PhaseIdle)
		a.muted = false
		a.speaking = false
		a.volume = 0
		a.speaker = ""
		a.call = nil
		a.gen++
		a.logger.Info().Str("reason", e.Reason).Msg("Call ended")
		if cb.OnDisconnect != nil {
			notify = append(notify, cb.OnDisconnect)
		}

	case SpeechStart:
		a.speaking = true
		if cb.OnSpeechStart != nil {
			notify = append(notify, cb.OnSpeechStart)
		}

	case SpeechEnd:
		a.speaking = false
		if cb.OnSpeechEnd != nil {
			notify = append(notify, cb.OnSpeechEnd)
		}

	case VolumeLevel:
		a.volume = e.Level
		if cb.OnVolumeLevel != nil {
			level := e.Level
			notify = append(notify, func() { cb.OnVolumeLevel(level) })
		}

	case Transcript:
		entry := TranscriptEntry{
			Speaker: e.Speaker,
			Role:    e.Role,
			Text:    e.Text,
			At:      time.Now(),
		}
		a.transcript = append(a.transcript, entry)
		if cb.OnMessage != nil {
			notify = append(notify, func() { cb.OnMessage(entry) })
		}
		if !isEndUser(e) && e.Speaker != "" && e.Speaker != a.speaker {
			a.speaker = e.Speaker
			a.logger.Debug().Str("speaker", e.Speaker).Msg("Speaker changed")
			if cb.OnSpeakerChange != nil {
				speaker := e.Speaker
				notify = append(notify, func() { cb.OnSpeakerChange(speaker) })
			}
		}

	case ErrorEvent:
		notify = append(notify, a.vendorFailureLocked(e.Err))

	default:
		a.logger.Debug().Str("event", EventName(ev)).Msg("Ignoring unknown event")
	}
	a.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// closeCall closes call, in the background when a callback may be running
// on the vendor goroutine.
func (a *Adapter) closeCall(call Call, logger zerolog.Logger, failure string) {
	closeFn := func() {
		if err := call.Close(); err != nil {
			logger.Warn().Err(err).Msg(failure)
		}
	}
	if a.dispatching.Load() > 0 {
		go closeFn()
		return
	}
	closeFn()
}

func isEndUser(t Transcript) bool {
	if t.Role != "" {
		return t.Role == RoleUser
	}
	return t.Speaker == RoleUser
}

// vendorFailureLocked classifies err and moves to the Error phase.
func (a *Adapter) vendorFailureLocked(err error) func() {
	a.stopTimerLocked()
	category, message := ClassifyError(err)
	a.logger.Error().Err(err).Str("category", string(category)).Msg("Voice session error")
	return a.failLocked(category, message)
}

// failLocked records a failure and returns the OnError notification.
func (a *Adapter) failLocked(category Category, message string) func() {
	a.setPhaseLocked(PhaseError)
	a.err = message
	a.category = category
	if category == CategoryConfiguration {
		a.logger.Error().Str("category", string(category)).Msg(message)
	}

	onError := a.callbacks.OnError
	return func() {
		if onError != nil {
			onError(category, message)
		}
	}
}

func (a *Adapter) setPhaseLocked(to Phase) bool {
	if !CanTransition(a.phase, to) {
		a.logger.Warn().
			Str("from", string(a.phase)).
			Str("to", string(to)).
			Msg("Ignoring invalid phase transition")
		return false
	}
	a.phase = to
	return true
}

func (a *Adapter) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Adapter) resetLocked() {
	a.stopTimerLocked()
	a.gen++
	a.call = nil
	a.detached = false
	a.phase = PhaseIdle
	a.err, a.category = "", CategoryNone
	a.speaker = ""
	a.muted = false
	a.speaking = false
	a.volume = 0
	a.attempts = 0
	a.transcript = nil
	a.id = uuid.NewString()
}
