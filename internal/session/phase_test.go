package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Phase }{
		{PhaseIdle, PhaseConnecting},
		{PhaseIdle, PhaseError},
		{PhaseConnecting, PhaseConnected},
		{PhaseConnecting, PhaseError},
		{PhaseConnecting, PhaseIdle},
		{PhaseConnected, PhaseIdle},
		{PhaseConnected, PhaseError},
		{PhaseError, PhaseConnecting},
		{PhaseError, PhaseIdle},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	denied := []struct{ from, to Phase }{
		{PhaseIdle, PhaseConnected},
		{PhaseConnected, PhaseConnecting},
		{PhaseError, PhaseConnected},
		{Phase("bogus"), PhaseIdle},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}
}
