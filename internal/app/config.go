package app

import "fmt"

// Commands accepted by the application.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command   string // up, down, or status
	StackPath string // optional HCL stack file
	WorkDir   string // directory the stack is materialized into

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		cfg.Command = CommandUp
	}
	switch cfg.Command {
	case CommandUp, CommandDown, CommandStatus:
	default:
		return nil, fmt.Errorf("unknown command %q: must be 'up', 'down', or 'status'", cfg.Command)
	}

	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}

	return &cfg, nil
}
