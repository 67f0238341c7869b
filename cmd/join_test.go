package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikw/philofight/internal/catalog"
	"github.com/daikw/philofight/internal/session"
)

type fakeController struct {
	connects int
	sent     []string
	muted    bool
	canRetry bool
	state    session.State
}

func (f *fakeController) Connect(ctx context.Context, cfg session.SessionConfig) { f.connects++ }
func (f *fakeController) SendMessage(text string)                               { f.sent = append(f.sent, text) }
func (f *fakeController) Mute()                                                 { f.muted = true }
func (f *fakeController) Unmute()                                               { f.muted = false }
func (f *fakeController) CanRetry() bool                                        { return f.canRetry }
func (f *fakeController) State() session.State                                  { return f.state }

func TestRunConsole(t *testing.T) {
	color.NoColor = true

	ctl := &fakeController{
		canRetry: true,
		state:    session.State{SessionID: "s-1", Phase: session.PhaseError, Err: "boom", Category: session.CategoryNetwork, MaxAttempts: 3},
	}
	var buf bytes.Buffer
	out := newPrinter(&buf, catalog.Default())

	input := strings.Join([]string{
		"Is lying ever right?",
		"",
		"/mute",
		"/retry",
		"/state",
		"/dance",
		"/quit",
		"never sent",
	}, "\n")

	runConsole(context.Background(), ctl, session.SessionConfig{PersonaID: "kant"}, strings.NewReader(input), out, false, nil)

	assert.Equal(t, []string{"Is lying ever right?"}, ctl.sent)
	assert.True(t, ctl.muted)
	assert.Equal(t, 1, ctl.connects)
	assert.Contains(t, buf.String(), "session s-1: error")
	assert.Contains(t, buf.String(), "last error [network]: boom")
	assert.Contains(t, buf.String(), "Unknown command /dance")
}

func TestRunConsole_RetryRefused(t *testing.T) {
	color.NoColor = true

	ctl := &fakeController{state: session.State{Phase: session.PhaseConnected, MaxAttempts: 3}}
	var buf bytes.Buffer

	runConsole(context.Background(), ctl, session.SessionConfig{}, strings.NewReader("/retry\n/unmute\n"), newPrinter(&buf, catalog.Default()), false, nil)

	assert.Zero(t, ctl.connects)
	assert.False(t, ctl.muted)
	assert.Contains(t, buf.String(), "Nothing to retry (phase connected")
}

func TestRunConsole_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctl := &fakeController{}
	var buf bytes.Buffer
	runConsole(ctx, ctl, session.SessionConfig{}, strings.NewReader(""), newPrinter(&buf, catalog.Default()), false, nil)
	assert.Empty(t, ctl.sent)
}

func TestRunConsole_EndsOnHangup(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	out := newPrinter(&buf, catalog.Default())
	in, w := io.Pipe()
	defer w.Close()

	done := make(chan struct{})
	ctl := &fakeController{}
	go func() {
		runConsole(context.Background(), ctl, session.SessionConfig{PersonaID: "kant"}, in, out, false, out.hungUp())
		close(done)
	}()

	out.callbacks().OnDisconnect()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("console kept running after the call ended")
	}
	assert.Contains(t, buf.String(), "* call ended")
	assert.Empty(t, ctl.sent)
}

func TestPrinterCallbacks(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	cb := newPrinter(&buf, catalog.Default()).callbacks()

	cb.OnConnect()
	cb.OnSpeakerChange("kant")
	cb.OnMessage(session.TranscriptEntry{Role: session.RoleAssistant, Speaker: "kant", Text: "Duty."})
	cb.OnMessage(session.TranscriptEntry{Role: session.RoleUser, Speaker: "user", Text: "Why?"})
	cb.OnError(session.CategoryAuth, "Authentication failed: check your public key.")
	cb.OnDisconnect()

	assert.Equal(t, strings.Join([]string{
		"* connected",
		"* Immanuel Kant has the floor",
		"Immanuel Kant: Duty.",
		"you: Why?",
		"x [authentication] Authentication failed: check your public key.",
		"  /retry to try again, /quit to leave",
		"* call ended",
		"",
	}, "\n"), buf.String())
}

func TestSessionConfigFor(t *testing.T) {
	cat := catalog.Default()

	cfg, title, err := sessionConfigFor(cat, "", "Simone de Beauvoir")
	require.NoError(t, err)
	assert.Equal(t, session.SessionConfig{PersonaID: "beauvoir"}, cfg)
	assert.Equal(t, "Simone de Beauvoir", title)

	cfg, title, err = sessionConfigFor(cat, "cave", "")
	require.NoError(t, err)
	assert.Equal(t, "plato", cfg.PersonaID)
	assert.Equal(t, `"Out of the Cave"`, title)

	_, _, err = sessionConfigFor(cat, "", "")
	assert.Error(t, err)

	_, _, err = sessionConfigFor(cat, "", "zeno")
	assert.ErrorContains(t, err, "does not exist")

	_, _, err = sessionConfigFor(cat, "atlantis", "")
	assert.ErrorContains(t, err, "does not exist")
}
