// Package config loads philofight settings from JSON files and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daikw/philofight/internal/session"
	"github.com/daikw/philofight/internal/speech"
)

const (
	VendorRealtime  = "realtime"
	VendorRehearsal = "rehearsal"

	EnvPublicKey = "PHILOFIGHT_PUBLIC_KEY"
	EnvVendorURL = "PHILOFIGHT_VENDOR_URL"

	// ProjectPath is relative to the working directory
	ProjectPath = ".philofight/config.json"
)

// File is the on-disk configuration
type File struct {
	PublicKey             string        `json:"publicKey,omitempty"`
	VendorURL             string        `json:"vendorUrl,omitempty"`
	Vendor                string        `json:"vendor,omitempty"`
	ConnectTimeoutSeconds int           `json:"connectTimeoutSeconds,omitempty"`
	MaxAttempts           int           `json:"maxAttempts,omitempty"`
	CatalogPath           string        `json:"catalogPath,omitempty"`
	Speech                *SpeechConfig `json:"speech,omitempty"`
}

// SpeechConfig selects the provider that voices rehearsal lines
type SpeechConfig struct {
	Provider  string  `json:"provider,omitempty"`
	APIKey    string  `json:"apiKey,omitempty"`
	Voice     string  `json:"voice,omitempty"`
	Model     string  `json:"model,omitempty"`
	Format    string  `json:"format,omitempty"`
	Speed     float64 `json:"speed,omitempty"`
	Region    string  `json:"region,omitempty"`
	ProjectID string  `json:"projectId,omitempty"`
	Endpoint  string  `json:"endpoint,omitempty"`
}

// Settings converts the section into provider factory settings
func (s *SpeechConfig) Settings() speech.Settings {
	if s == nil {
		return speech.Settings{}
	}
	return speech.Settings{
		Provider:  s.Provider,
		APIKey:    s.APIKey,
		Voice:     s.Voice,
		Model:     s.Model,
		Format:    s.Format,
		Region:    s.Region,
		ProjectID: s.ProjectID,
		Endpoint:  s.Endpoint,
	}
}

// Loader finds the configuration file
type Loader struct {
	projectPath string
	globalPath  string
}

// NewLoader creates a loader for the default locations
func NewLoader() *Loader {
	homeDir, _ := os.UserHomeDir()
	return &Loader{
		projectPath: ProjectPath,
		globalPath:  filepath.Join(homeDir, ".philofight", "config.json"),
	}
}

// ProjectFile returns the project config path under workDir
func (l *Loader) ProjectFile(workDir string) string {
	return filepath.Join(workDir, l.projectPath)
}

// GlobalFile returns the per-user config path
func (l *Loader) GlobalFile() string {
	return l.globalPath
}

// Load reads the first config found, in order:
// 1. Project config (.philofight/config.json)
// 2. Global config (~/.philofight/config.json)
// Environment overrides are applied on top. It returns the path that was
// read, empty when no file exists.
func (l *Loader) Load(workDir string) (*File, string, error) {
	for _, path := range []string{l.ProjectFile(workDir), l.globalPath} {
		cfg, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		log.Debug().Str("path", path).Msg("Loaded config")
		cfg.applyEnv()
		return cfg, path, nil
	}

	log.Debug().Msg("No config file found")
	cfg := &File{}
	cfg.applyEnv()
	return cfg, "", nil
}

// LoadFile reads a single config file without environment overrides
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg File
	if err := json.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	checkFilePermissions(path)
	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with its value, or nothing when unset
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		if value, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return value
		}
		log.Debug().Msg("Referenced environment variable not set in config")
		return ""
	})
}

func checkFilePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		log.Warn().
			Str("path", path).
			Str("permissions", fmt.Sprintf("%04o", mode)).
			Msg("Config file may contain secrets but has permissive permissions. Consider: chmod 600")
	}
}

func (f *File) applyEnv() {
	if v, ok := os.LookupEnv(EnvPublicKey); ok && v != "" {
		f.PublicKey = v
	}
	if v, ok := os.LookupEnv(EnvVendorURL); ok && v != "" {
		f.VendorURL = v
	}
}

// Resolved is a File with defaults applied
type Resolved struct {
	PublicKey      string
	VendorURL      string
	Vendor         string
	ConnectTimeout time.Duration
	MaxAttempts    int
	CatalogPath    string
	Speech         *SpeechConfig
}

// Resolve applies defaults
func (f *File) Resolve() Resolved {
	r := Resolved{
		Vendor:         VendorRealtime,
		ConnectTimeout: session.DefaultConnectTimeout,
		MaxAttempts:    session.DefaultMaxAttempts,
	}
	if f == nil {
		return r
	}

	r.PublicKey = f.PublicKey
	r.VendorURL = f.VendorURL
	r.CatalogPath = f.CatalogPath
	r.Speech = f.Speech
	if f.Vendor != "" {
		r.Vendor = f.Vendor
	}
	if f.ConnectTimeoutSeconds > 0 {
		r.ConnectTimeout = time.Duration(f.ConnectTimeoutSeconds) * time.Second
	}
	if f.MaxAttempts > 0 {
		r.MaxAttempts = f.MaxAttempts
	}
	return r
}
