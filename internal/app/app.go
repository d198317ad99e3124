package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/stackpilot/stackpilot/internal/dockercli"
	"github.com/stackpilot/stackpilot/internal/stack"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	stack  *stack.Stack

	// runner, when non-nil, replaces the real command execution backend.
	// Injected by tests so no run touches an actual container runtime.
	runner dockercli.CommandRunner
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a resolved
// stack model. A stack file that cannot be loaded is a fatal startup error
// and panics; the caller recovers it at the process boundary.
func NewApp(outW io.Writer, appConfig *Config, runner dockercli.CommandRunner) *App {
	logger, err := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	if err != nil {
		panic(fmt.Errorf("failed to configure logging: %w", err))
	}
	logger.Debug("Logger configured successfully.")

	st, err := stack.Load(appConfig.StackPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Stack model resolved.", "project", st.Project.Name, "stack_file", appConfig.StackPath)

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		stack:  st,
		runner: runner,
	}
}

// Stack returns the resolved stack model. This is primarily for testing.
func (a *App) Stack() *stack.Stack {
	return a.stack
}

// dockerClient builds the container runtime client. With an injected
// runner the binary is never looked up, so tests run without docker
// installed.
func (a *App) dockerClient() (*dockercli.Client, error) {
	if a.runner != nil {
		return dockercli.NewClientWithRunner(a.runner, a.outW, a.outW), nil
	}
	return dockercli.NewClient(a.outW, a.outW)
}
