// Package config holds the defaults and the configuration of a POD node.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vocdoni/pod2-sandbox/pod"
)

const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 9090
	DefaultLogLevel = "info"
	DefaultLogOut   = "stdout"

	// DefaultSetupTimeout bounds the compilation and setup of the circuits
	// of a parameters tuple.
	DefaultSetupTimeout = 2 * time.Hour
)

// DefaultDataDir is the node data directory, under the user home when it
// is known.
var DefaultDataDir = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pod2"
	}
	return filepath.Join(home, ".pod2")
}()

// Config is the configuration of a POD node.
type Config struct {
	Host     string
	Port     int
	DataDir  string
	LogLevel string
	LogOut   string
	Params   pod.Params
	// Prover enables the plonky prover. Without it plonky PODs can still
	// be queued but are never proven or verified.
	Prover bool
	// Artifacts enables the on-disk cache of circuits and keys.
	Artifacts bool
	// Seed is the toxic seed of the KZG SRS.
	Seed string
}

// Default returns the default node configuration.
func Default() *Config {
	return &Config{
		Host:      DefaultHost,
		Port:      DefaultPort,
		DataDir:   DefaultDataDir,
		LogLevel:  DefaultLogLevel,
		LogOut:    DefaultLogOut,
		Params:    pod.DefaultParams,
		Prover:    true,
		Artifacts: true,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("missing data directory")
	}
	return c.Params.Validate()
}

// DBDir is the directory of the node database.
func (c *Config) DBDir() string {
	return filepath.Join(c.DataDir, "db")
}
