// Package testutil provides shared fakes and helpers for tests, most
// importantly a scriptable fake command runner so no test ever touches a
// real container runtime.
package testutil

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
)

// Call records a single command dispatched to the fake runner.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call as a single command line for simple assertions.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner implements dockercli.CommandRunner. It records every call and
// optionally delegates to a hook to script failures or side effects.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call

	// Hook, when set, decides the outcome of each call. A nil Hook makes
	// every command succeed.
	Hook func(c Call) error
}

// Run implements the CommandRunner interface.
func (f *FakeRunner) Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	call := Call{Dir: dir, Name: name, Args: args}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	return nil
}

// Calls returns a copy of every recorded call.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns every recorded call rendered as a command line.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}
