package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory Category
		wantMessage  string
	}{
		{"nil", nil, CategoryUnknown, "unknown error"},
		{"empty message", errors.New("  "), CategoryUnknown, "unknown error"},
		{"network", errors.New("NetworkError when attempting to fetch resource"), CategoryNetwork, msgNetwork},
		{"cors", errors.New("blocked by CORS policy"), CategoryNetwork, msgNetwork},
		{"dns", errors.New("dial tcp: lookup voice.example: no such host"), CategoryNetwork, msgNetwork},
		{"fetch", errors.New("Failed to fetch"), CategoryConnection, msgConnection},
		{"handshake", errors.New("websocket: bad handshake"), CategoryConnection, msgConnection},
		{"unauthorized", errors.New("401 Unauthorized"), CategoryAuth, msgAuth},
		{"forbidden", errors.New("Forbidden"), CategoryAuth, msgAuth},
		{"invalid key", errors.New("Invalid API key supplied"), CategoryAuth, msgAuth},
		{"unrecognized", errors.New("assistant exploded"), CategoryUnknown, "assistant exploded"},
		{"wrapped", fmt.Errorf("start call: %w", errors.New("connection refused")), CategoryNetwork, msgNetwork},
		{"vendor code wins", &VendorError{Code: "unauthorized", Message: "network hiccup"}, CategoryAuth, msgAuth},
		{"vendor unavailable", &VendorError{Code: "unavailable", Message: "try later"}, CategoryConnection, msgConnection},
		{"vendor unknown code", &VendorError{Code: "quota", Message: "quota exceeded"}, CategoryUnknown, "quota: quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, message := ClassifyError(tt.err)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestIsConfiguredKey(t *testing.T) {
	assert.False(t, IsConfiguredKey(""))
	assert.False(t, IsConfiguredKey("your_public_key_here"))
	assert.False(t, IsConfiguredKey("YOUR_VAPI_PUBLIC_KEY_HERE"))
	assert.False(t, IsConfiguredKey("changeme"))
	assert.True(t, IsConfiguredKey("3f1c2a90-pk"))
}

func TestVendorError(t *testing.T) {
	assert.Equal(t, "not_found: no such persona", (&VendorError{Code: "not_found", Message: "no such persona"}).Error())
	assert.Equal(t, "plain", (&VendorError{Message: "plain"}).Error())
}
