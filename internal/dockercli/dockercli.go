// Package dockercli drives the container runtime through the docker binary.
//
// Every interaction with the runtime goes through a single Client so the
// bootstrap pipeline can be tested against a fake command runner without a
// real daemon present.
package dockercli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// ErrRuntimeUnavailable is returned when the container runtime does not
// respond to a status query. The pipeline treats this as fatal and aborts
// before any mutation.
var ErrRuntimeUnavailable = errors.New("container runtime unavailable")

// pingTimeout bounds the runtime status query so a hung daemon socket
// cannot stall startup.
const pingTimeout = 5 * time.Second

// CommandRunner executes a single external command. The production
// implementation shells out; tests substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// ExecRunner is the CommandRunner backed by os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Client wraps the docker binary.
type Client struct {
	bin    string
	runner CommandRunner
	stdout io.Writer
	stderr io.Writer
}

// NewClient locates the docker binary and returns a Client that streams
// subcommand output to the given writers.
func NewClient(stdout, stderr io.Writer) (*Client, error) {
	bin, err := exec.LookPath("docker")
	if err != nil {
		return nil, fmt.Errorf("%w: docker binary not found in PATH", ErrRuntimeUnavailable)
	}
	return &Client{bin: bin, runner: ExecRunner{}, stdout: stdout, stderr: stderr}, nil
}

// NewClientWithRunner returns a Client that dispatches all commands to the
// provided runner. Used by tests.
func NewClientWithRunner(runner CommandRunner, stdout, stderr io.Writer) *Client {
	return &Client{bin: "docker", runner: runner, stdout: stdout, stderr: stderr}
}

// Ping performs the runtime status query. A non-responsive daemon yields
// ErrRuntimeUnavailable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.runner.Run(ctx, "", io.Discard, io.Discard, c.bin, "info", "--format", "{{.ServerVersion}}"); err != nil {
		return fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}
	return nil
}

// OneShot describes a single throwaway tool container invocation, e.g. a
// package-manager image run against a mounted host directory.
type OneShot struct {
	Image   string
	Mount   string // host path mounted at Workdir
	Workdir string
	Cmd     []string
}

// RunOneShot runs `docker run --rm` for the given tool container.
func (c *Client) RunOneShot(ctx context.Context, o OneShot) error {
	args := []string{"run", "--rm"}
	if o.Mount != "" {
		args = append(args, "-v", o.Mount+":"+o.Workdir)
	}
	if o.Workdir != "" {
		args = append(args, "-w", o.Workdir)
	}
	args = append(args, o.Image)
	args = append(args, o.Cmd...)

	if err := c.runner.Run(ctx, "", c.stdout, c.stderr, c.bin, args...); err != nil {
		return fmt.Errorf("container %s: %w", o.Image, err)
	}
	return nil
}

// Compose runs `docker compose` with the given arguments in dir.
func (c *Client) Compose(ctx context.Context, dir string, args ...string) error {
	full := append([]string{"compose"}, args...)
	if err := c.runner.Run(ctx, dir, c.stdout, c.stderr, c.bin, full...); err != nil {
		return fmt.Errorf("docker compose %s: %w", args[0], err)
	}
	return nil
}

// ComposeExec runs a command inside an already-running compose service.
// The -T flag disables TTY allocation so the call works non-interactively.
func (c *Client) ComposeExec(ctx context.Context, dir, service string, cmd ...string) error {
	args := append([]string{"exec", "-T", service}, cmd...)
	return c.Compose(ctx, dir, args...)
}
