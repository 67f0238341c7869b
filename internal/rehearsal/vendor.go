// Package rehearsal is an offline stand-in for the hosted voice service.
// Philosophers answer with canned lines from the catalog and follow their
// squad hand-offs, optionally voiced through a speech provider.
package rehearsal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daikw/philofight/internal/catalog"
	"github.com/daikw/philofight/internal/session"
	"github.com/daikw/philofight/internal/speech"
)

const (
	inboxSize      = 16
	speakingVolume = 0.6
	endReason      = "customer-ended-call"
)

// Vendor implements session.Vendor without a network
type Vendor struct {
	catalog  *catalog.Catalog
	provider speech.Provider
	player   speech.Player
	speed    float64
	pace     time.Duration
	logger   zerolog.Logger
}

// Option configures a Vendor
type Option func(*Vendor)

// WithSpeech voices every line through provider and player
func WithSpeech(provider speech.Provider, player speech.Player) Option {
	return func(v *Vendor) {
		v.provider = provider
		v.player = player
	}
}

// WithSpeed sets the speaking rate passed to the provider
func WithSpeed(speed float64) Option {
	return func(v *Vendor) { v.speed = speed }
}

// WithPace delays each reply, as if the philosopher were thinking
func WithPace(d time.Duration) Option {
	return func(v *Vendor) { v.pace = d }
}

// WithLogger replaces the vendor logger
func WithLogger(l zerolog.Logger) Option {
	return func(v *Vendor) { v.logger = l }
}

// New creates a rehearsal vendor over cat
func New(cat *catalog.Catalog, opts ...Option) *Vendor {
	v := &Vendor{
		catalog: cat,
		logger:  log.Logger.With().Str("component", "rehearsal").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type member struct {
	philosopher  catalog.Philosopher
	destinations []session.Destination
}

// Open resolves the lineup and starts the call goroutine
func (v *Vendor) Open(ctx context.Context, req session.StartRequest, handle session.EventHandler) (session.Call, error) {
	lineup, err := v.lineup(req)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &call{
		vendor: v,
		lineup: lineup,
		turns:  make(map[string]int),
		handle: handle,
		inbox:  make(chan session.Message, inboxSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		ctx:    callCtx,
		cancel: cancel,
		logger: v.logger.With().Str("session_id", req.SessionID).Logger(),
	}
	go c.run()
	return c, nil
}

func (v *Vendor) lineup(req session.StartRequest) ([]member, error) {
	switch {
	case req.PersonaID != "":
		p, ok := v.catalog.Resolve(req.PersonaID)
		if !ok {
			return nil, notFound("unknown persona %q", req.PersonaID)
		}
		return []member{{philosopher: p}}, nil
	case req.SquadID != "":
		d, ok := v.catalog.DebateBySquadID(req.SquadID)
		if !ok || d.Squad == nil {
			return nil, notFound("unknown squad %q", req.SquadID)
		}
		return v.members(d.Squad.Members)
	case req.Squad != nil && len(req.Squad.Members) > 0:
		return v.members(req.Squad.Members)
	}
	return nil, fmt.Errorf("start request names no persona or squad")
}

func (v *Vendor) members(in []session.Member) ([]member, error) {
	lineup := make([]member, 0, len(in))
	for _, m := range in {
		p, ok := v.catalog.Resolve(m.PersonaID)
		if !ok {
			return nil, notFound("unknown squad member %q", m.PersonaID)
		}
		lineup = append(lineup, member{philosopher: p, destinations: m.Destinations})
	}
	return lineup, nil
}

func notFound(format string, args ...any) error {
	return &session.VendorError{Code: "not_found", Message: fmt.Sprintf(format, args...)}
}

type call struct {
	vendor *Vendor
	lineup []member
	active int
	turns  map[string]int
	handle session.EventHandler
	logger zerolog.Logger

	inbox chan session.Message
	stop  chan struct{}
	done  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
	muted     atomic.Bool
}

func (c *call) run() {
	defer close(c.done)

	c.emit(session.CallStart{})
	for {
		select {
		case <-c.stop:
			c.emit(session.CallEnd{Reason: endReason})
			return
		case msg := <-c.inbox:
			if !c.respond(msg) {
				c.emit(session.CallEnd{Reason: endReason})
				return
			}
		}
	}
}

// respond plays one turn. It returns false when the call was closed midway.
func (c *call) respond(msg session.Message) bool {
	c.emit(session.Transcript{Role: session.RoleUser, Speaker: session.RoleUser, Text: msg.Content})

	if !c.wait(c.vendor.pace) {
		return false
	}

	current := c.lineup[c.active]
	p := current.philosopher
	line := c.nextLine(p)

	c.emit(session.SpeechStart{})
	c.emit(session.VolumeLevel{Level: speakingVolume})
	c.speak(p, line)
	c.emit(session.Transcript{Role: session.RoleAssistant, Speaker: p.Name, Text: line})
	c.emit(session.VolumeLevel{Level: 0})
	c.emit(session.SpeechEnd{})

	c.handOff(current)
	return true
}

func (c *call) nextLine(p catalog.Philosopher) string {
	if len(p.Responses) == 0 {
		if p.Quote != "" {
			return p.Quote
		}
		return "..."
	}
	n := c.turns[p.ID]
	c.turns[p.ID] = n + 1
	return p.Responses[n%len(p.Responses)]
}

// handOff follows the first destination of the active member
func (c *call) handOff(current member) {
	if len(current.destinations) == 0 {
		return
	}
	dest := current.destinations[0]
	for i, m := range c.lineup {
		if i == c.active || !refersTo(m.philosopher, dest.TargetPersonaName) {
			continue
		}
		if dest.Message != "" {
			c.emit(session.Transcript{
				Role:    session.RoleAssistant,
				Speaker: current.philosopher.Name,
				Text:    dest.Message,
			})
		}
		c.logger.Debug().
			Str("from", current.philosopher.ID).
			Str("to", m.philosopher.ID).
			Msg("Handing off")
		c.active = i
		return
	}
	c.logger.Warn().Str("target", dest.TargetPersonaName).Msg("Hand-off target not in lineup")
}

func refersTo(p catalog.Philosopher, ref string) bool {
	ref = strings.TrimSpace(ref)
	return p.ID == ref || strings.EqualFold(p.Name, ref)
}

func (c *call) speak(p catalog.Philosopher, line string) {
	provider, player := c.vendor.provider, c.vendor.player
	if provider == nil || player == nil {
		return
	}

	opts := speech.SynthesizeOptions{Speed: c.vendor.speed}
	if p.Voice != nil && p.Voice.Provider == provider.Name() {
		opts.Voice = p.Voice.VoiceID
	}

	audio, err := provider.Synthesize(c.ctx, line, opts)
	if err != nil {
		c.logger.Warn().Err(err).Str("philosopher", p.ID).Msg("Speech synthesis failed")
		return
	}
	defer func() {
		_ = audio.Close()
	}()

	if err := player.Play(c.ctx, audio, opts.Format); err != nil && c.ctx.Err() == nil {
		c.logger.Warn().Err(err).Msg("Playback failed")
	}
}

func (c *call) wait(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-c.stop:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.stop:
		return false
	case <-timer.C:
		return true
	}
}

// emit delivers ev unless the call was closed; CallEnd always goes out
func (c *call) emit(ev session.Event) {
	if _, end := ev.(session.CallEnd); !end {
		select {
		case <-c.stop:
			return
		default:
		}
	}
	c.handle(ev)
}

// Send queues a message for the active philosopher
func (c *call) Send(msg session.Message) error {
	select {
	case <-c.stop:
		return fmt.Errorf("call is closed")
	default:
	}
	select {
	case c.inbox <- msg:
		return nil
	default:
		return fmt.Errorf("too many pending messages")
	}
}

// SetMuted records the microphone state; typed messages still go through
func (c *call) SetMuted(muted bool) error {
	c.muted.Store(muted)
	c.logger.Debug().Bool("muted", muted).Msg("Microphone toggled")
	return nil
}

// Close ends the call with a CallEnd event and waits for the call goroutine
// to deliver it.
func (c *call) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.cancel()
	})
	<-c.done
	return nil
}
