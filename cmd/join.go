package main

import (
	"bufio"
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/daikw/philofight/internal/catalog"
	"github.com/daikw/philofight/internal/config"
	"github.com/daikw/philofight/internal/realtime"
	"github.com/daikw/philofight/internal/rehearsal"
	"github.com/daikw/philofight/internal/session"
	"github.com/daikw/philofight/internal/speech"
)

// rehearsalKey stands in for a credential when no service is involved
const rehearsalKey = "rehearsal-offline"

func handleJoin(ctx context.Context, c *cli.Command) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	resolved := cfg.Resolve()
	if v := c.String("vendor"); v != "" {
		resolved.Vendor = v
	}

	cat, err := loadCatalog(resolved.CatalogPath)
	if err != nil {
		return err
	}
	sessionCfg, title, err := sessionConfigFor(cat, c.Args().Get(0), c.String("persona"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	vendor, cleanup, err := buildVendor(ctx, c, resolved, cat)
	if err != nil {
		return err
	}
	defer cleanup()

	publicKey := resolved.PublicKey
	if resolved.Vendor == config.VendorRehearsal && !session.IsConfiguredKey(publicKey) {
		publicKey = rehearsalKey
	}

	out := newPrinter(os.Stdout, cat)
	adapter := session.New(vendor, session.Options{
		PublicKey:      publicKey,
		ConnectTimeout: resolved.ConnectTimeout,
		MaxAttempts:    resolved.MaxAttempts,
		Callbacks:      out.callbacks(),
	})

	out.info("Joining %s via %s. Type to speak, /help for commands.", title, resolved.Vendor)
	adapter.Connect(ctx, sessionCfg)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	runConsole(ctx, adapter, sessionCfg, os.Stdin, out, interactive, out.hungUp())

	// Disconnect resets the transcript
	transcript := adapter.Transcript()
	adapter.Disconnect()

	if path := c.String("transcript-out"); path != "" {
		if err := session.SaveTranscript(path, transcript); err != nil {
			return err
		}
		out.info("Transcript written to %s", path)
	}
	return nil
}

// sessionConfigFor picks a debate, or a single philosopher when persona is set
func sessionConfigFor(cat *catalog.Catalog, debateID, persona string) (session.SessionConfig, string, error) {
	if persona != "" {
		p, ok := cat.Resolve(persona)
		if !ok {
			return session.SessionConfig{}, "", fmt.Errorf("philosopher '%s' does not exist", persona)
		}
		return session.SessionConfig{PersonaID: p.ID}, p.Name, nil
	}
	if debateID == "" {
		return session.SessionConfig{}, "", fmt.Errorf("debate id or --persona is required")
	}

	cfg, err := cat.SessionConfig(debateID)
	if err != nil {
		return session.SessionConfig{}, "", err
	}
	d, _ := cat.Debate(debateID)
	return cfg, fmt.Sprintf("%q", d.Title), nil
}

// buildVendor returns the vendor named in the config and a cleanup func
func buildVendor(ctx context.Context, c *cli.Command, r config.Resolved, cat *catalog.Catalog) (session.Vendor, func(), error) {
	noop := func() {}

	switch r.Vendor {
	case config.VendorRealtime:
		if c.Bool("speak") {
			log.Warn().Msg("--speak only applies to the rehearsal vendor; the voice service speaks for itself")
		}
		return realtime.New(r.VendorURL), noop, nil

	case config.VendorRehearsal:
		opts := []rehearsal.Option{rehearsal.WithPace(c.Duration("pace"))}
		if !c.Bool("speak") {
			return rehearsal.New(cat, opts...), noop, nil
		}

		if r.Speech == nil {
			return nil, nil, fmt.Errorf("--speak needs a speech section in the config (run 'philofight config init')")
		}
		provider, err := speech.NewProvider(ctx, r.Speech.Settings())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create speech provider: %w", err)
		}
		cleanup := noop
		if closer, ok := provider.(io.Closer); ok {
			cleanup = func() { _ = closer.Close() }
		}
		player := speech.NewCommandPlayer()
		if !player.Available() {
			cleanup()
			return nil, nil, fmt.Errorf("no audio player found (tried afplay, paplay, aplay, ffplay)")
		}
		opts = append(opts, rehearsal.WithSpeech(provider, player), rehearsal.WithSpeed(r.Speech.Speed))
		return rehearsal.New(cat, opts...), cleanup, nil
	}
	return nil, nil, fmt.Errorf("unknown vendor: %s", r.Vendor)
}

// controller is the part of session.Adapter the console drives
type controller interface {
	Connect(ctx context.Context, cfg session.SessionConfig)
	SendMessage(text string)
	Mute()
	Unmute()
	CanRetry() bool
	State() session.State
}

// runConsole reads lines until /quit, end of input, hangup or ctx is done.
// Lines starting with a slash are commands; everything else is sent to the
// call.
func runConsole(ctx context.Context, ctl controller, cfg session.SessionConfig, in io.Reader, out *printer, interactive bool, hangup <-chan struct{}) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if interactive {
			out.prompt()
		}
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !handleLine(ctx, ctl, cfg, strings.TrimSpace(line), out) {
				return
			}
		}
	}
}

// handleLine returns false when the user asked to leave
func handleLine(ctx context.Context, ctl controller, cfg session.SessionConfig, line string, out *printer) bool {
	switch line {
	case "":
	case "/quit", "/exit":
		return false
	case "/help":
		out.info("/mute  /unmute  /retry  /state  /quit")
	case "/mute":
		ctl.Mute()
	case "/unmute":
		ctl.Unmute()
	case "/retry":
		if !ctl.CanRetry() {
			st := ctl.State()
			out.info("Nothing to retry (phase %s, attempts %d/%d)", st.Phase, st.Attempts, st.MaxAttempts)
			break
		}
		ctl.Connect(ctx, cfg)
	case "/state":
		st := ctl.State()
		out.info("session %s: %s, speaker %q, muted %t, attempts %d/%d",
			st.SessionID, st.Phase, st.Speaker, st.Muted, st.Attempts, st.MaxAttempts)
		if st.Err != "" {
			out.info("last error [%s]: %s", st.Category, st.Err)
		}
	default:
		if strings.HasPrefix(line, "/") {
			out.info("Unknown command %s, try /help", line)
			break
		}
		ctl.SendMessage(line)
	}
	return true
}

var speakerPalette = []color.Attribute{
	color.FgCyan, color.FgMagenta, color.FgYellow, color.FgGreen, color.FgBlue, color.FgRed,
}

// speakerColor gives each name a stable color
func speakerColor(name string) *color.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return color.New(speakerPalette[h.Sum32()%uint32(len(speakerPalette))], color.Bold)
}

// printer renders adapter callbacks. Callbacks arrive on vendor goroutines,
// so writes are serialized.
type printer struct {
	mu      sync.Mutex
	w       io.Writer
	catalog *catalog.Catalog

	hangupOnce sync.Once
	hangup     chan struct{}
}

func newPrinter(w io.Writer, cat *catalog.Catalog) *printer {
	return &printer{w: w, catalog: cat, hangup: make(chan struct{})}
}

// hungUp is closed once the call ends
func (p *printer) hungUp() <-chan struct{} {
	return p.hangup
}

func (p *printer) info(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	color.New(color.Faint).Fprintf(p.w, format+"\n", args...)
}

func (p *printer) prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, "> ")
}

func (p *printer) callbacks() session.Callbacks {
	return session.Callbacks{
		OnConnect: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			color.New(color.FgGreen).Fprintln(p.w, "* connected")
		},
		OnDisconnect: func() {
			p.info("* call ended")
			p.hangupOnce.Do(func() { close(p.hangup) })
		},
		OnError: func(category session.Category, message string) {
			p.mu.Lock()
			defer p.mu.Unlock()
			color.New(color.FgRed).Fprintf(p.w, "x [%s] %s\n", category, message)
			fmt.Fprintln(p.w, "  /retry to try again, /quit to leave")
		},
		OnSpeakerChange: func(persona string) {
			p.info("* %s has the floor", displayName(p.catalog, persona))
		},
		OnMessage: func(entry session.TranscriptEntry) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if entry.Role == session.RoleUser {
				color.New(color.Faint).Fprintf(p.w, "you: %s\n", entry.Text)
				return
			}
			name := displayName(p.catalog, entry.Speaker)
			if name == "" {
				name = entry.Role
			}
			speakerColor(name).Fprintf(p.w, "%s: ", name)
			fmt.Fprintln(p.w, entry.Text)
		},
		OnSpeechStart: func() { log.Debug().Msg("Speech started") },
		OnSpeechEnd:   func() { log.Debug().Msg("Speech ended") },
	}
}
