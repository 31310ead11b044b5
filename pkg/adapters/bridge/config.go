package bridge

import (
	"fmt"
	"time"
)

// Mode selects how the bridge is reached.
type Mode string

const (
	// ModeSpawn starts the bridge as a child process speaking over stdin/stdout.
	ModeSpawn Mode = "spawn"
	// ModeAttach dials a bridge already listening on TCP.
	ModeAttach Mode = "attach"
)

// Config describes the bridge endpoint.
type Config struct {
	Mode    Mode              `yaml:"mode" json:"mode" mapstructure:"mode" validate:"omitempty,oneof=spawn attach"`
	Command string            `yaml:"command" json:"command" mapstructure:"command"`
	Args    []string          `yaml:"args" json:"args" mapstructure:"args"`
	Env     map[string]string `yaml:"env" json:"env" mapstructure:"env"`
	Dir     string            `yaml:"dir" json:"dir" mapstructure:"dir"`
	Address string            `yaml:"address" json:"address" mapstructure:"address"`

	// DialAttempts and DialDelay control attach retries with exponential backoff.
	DialAttempts uint          `yaml:"dial_attempts" json:"dial_attempts" mapstructure:"dial_attempts"`
	DialDelay    time.Duration `yaml:"dial_delay" json:"dial_delay" mapstructure:"dial_delay"`

	// ShutdownGrace is how long a spawned bridge gets to exit after stdin closes.
	ShutdownGrace time.Duration `yaml:"shutdown_grace" json:"shutdown_grace" mapstructure:"shutdown_grace"`
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeSpawn
	}
	if c.Address == "" {
		c.Address = "127.0.0.1:7411"
	}
	if c.DialAttempts == 0 {
		c.DialAttempts = 5
	}
	if c.DialDelay == 0 {
		c.DialDelay = 500 * time.Millisecond
	}
	if c.ShutdownGrace == 0 {
		c.ShutdownGrace = 10 * time.Second
	}
	return c
}

// Validate checks the fields required by the selected mode.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSpawn:
		if c.Command == "" {
			return fmt.Errorf("bridge: spawn mode requires a command")
		}
	case ModeAttach:
		if c.Address == "" {
			return fmt.Errorf("bridge: attach mode requires an address")
		}
	default:
		return fmt.Errorf("bridge: unknown mode %q", c.Mode)
	}
	return nil
}
