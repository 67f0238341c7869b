package session

import (
	"errors"
	"strings"
)

// Category buckets failures for display
type Category string

const (
	CategoryNone          Category = ""
	CategoryConfiguration Category = "configuration"
	CategoryTimeout       Category = "timeout"
	CategoryNetwork       Category = "network"
	CategoryConnection    Category = "connection"
	CategoryAuth          Category = "authentication"
	CategoryUnknown       Category = "unknown"
)

const (
	msgNetwork    = "Network error: the voice service could not be reached. Check your internet connection."
	msgConnection = "Connection failed: unable to start the voice session."
	msgAuth       = "Authentication failed: check your public key."
	msgUnknown    = "unknown error"

	msgNotConfigured = "voice service not configured: set a public key"
	msgTimeout       = "connection timed out waiting for the call to start"
)

// vendorCodes maps structured vendor error codes to categories.
var vendorCodes = map[string]Category{
	"unauthorized":      CategoryAuth,
	"forbidden":         CategoryAuth,
	"invalid_key":       CategoryAuth,
	"network":           CategoryNetwork,
	"connection_failed": CategoryConnection,
	"unavailable":       CategoryConnection,
}

// Substring rules, checked in order against the lowercased message.
var classifyRules = []struct {
	category Category
	message  string
	needles  []string
}{
	{CategoryNetwork, msgNetwork, []string{"network", "cors", "no such host", "connection refused", "connection reset"}},
	{CategoryConnection, msgConnection, []string{"failed to fetch", "fetch", "bad handshake", "dial"}},
	{CategoryAuth, msgAuth, []string{"unauthorized", "401", "403", "forbidden", "authentication", "invalid key", "invalid api key"}},
}

// ClassifyError turns a vendor failure into a category and a human-readable
// message. It never panics; unknown shapes pass their raw message through.
func ClassifyError(err error) (Category, string) {
	if err == nil {
		return CategoryUnknown, msgUnknown
	}

	var vendorErr *VendorError
	if errors.As(err, &vendorErr) && vendorErr != nil {
		if category, ok := vendorCodes[strings.ToLower(vendorErr.Code)]; ok {
			return category, messageFor(category)
		}
	}

	raw := strings.TrimSpace(err.Error())
	if raw == "" {
		return CategoryUnknown, msgUnknown
	}

	lower := strings.ToLower(raw)
	for _, rule := range classifyRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.category, rule.message
			}
		}
	}
	return CategoryUnknown, raw
}

func messageFor(category Category) string {
	switch category {
	case CategoryNetwork:
		return msgNetwork
	case CategoryConnection:
		return msgConnection
	case CategoryAuth:
		return msgAuth
	case CategoryTimeout:
		return msgTimeout
	case CategoryConfiguration:
		return msgNotConfigured
	default:
		return msgUnknown
	}
}

// Placeholder values shipped in example env files.
var placeholderKeys = map[string]bool{
	"your_public_key_here":      true,
	"your-public-key":           true,
	"your_vapi_public_key_here": true,
	"<public-key>":              true,
	"changeme":                  true,
	"replace-me":                true,
	"xxx":                       true,
}

// IsConfiguredKey reports whether key looks like a real credential.
func IsConfiguredKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || placeholderKeys[key] {
		return false
	}
	if strings.HasPrefix(key, "your") && strings.HasSuffix(key, "here") {
		return false
	}
	return true
}
