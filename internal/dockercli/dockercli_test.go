package dockercli

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackpilot/stackpilot/internal/testutil"
)

func TestPing_RuntimeUp(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	client := NewClientWithRunner(runner, io.Discard, io.Discard)

	// --- Act ---
	err := client.Ping(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []string{"info", "--format", "{{.ServerVersion}}"}, calls[0].Args)
}

func TestPing_RuntimeDown(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{
		Hook: func(c testutil.Call) error { return errors.New("cannot connect to the docker daemon") },
	}
	client := NewClientWithRunner(runner, io.Discard, io.Discard)

	// --- Act ---
	err := client.Ping(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, ErrRuntimeUnavailable)
}

func TestRunOneShot_BuildsArguments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	client := NewClientWithRunner(runner, io.Discard, io.Discard)

	// --- Act ---
	err := client.RunOneShot(context.Background(), OneShot{
		Image:   "composer:2",
		Mount:   "/work",
		Workdir: "/app",
		Cmd:     []string{"composer", "create-project", "laravel/laravel", "backend"},
	})

	// --- Assert ---
	require.NoError(t, err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []string{
		"run", "--rm",
		"-v", "/work:/app",
		"-w", "/app",
		"composer:2",
		"composer", "create-project", "laravel/laravel", "backend",
	}, calls[0].Args)
}

func TestRunOneShot_WrapsFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	boom := errors.New("exit status 1")
	runner := &testutil.FakeRunner{Hook: func(c testutil.Call) error { return boom }}
	client := NewClientWithRunner(runner, io.Discard, io.Discard)

	// --- Act ---
	err := client.RunOneShot(context.Background(), OneShot{Image: "node:20-alpine", Cmd: []string{"npm", "install"}})

	// --- Assert ---
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "node:20-alpine")
}

func TestCompose_RunsInProjectDir(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	client := NewClientWithRunner(runner, io.Discard, io.Discard)

	// --- Act ---
	err := client.Compose(context.Background(), "/project", "up", "-d")

	// --- Assert ---
	require.NoError(t, err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "/project", calls[0].Dir)
	require.Equal(t, []string{"compose", "up", "-d"}, calls[0].Args)
}

func TestComposeExec_DisablesTTY(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	client := NewClientWithRunner(runner, io.Discard, io.Discard)

	// --- Act ---
	err := client.ComposeExec(context.Background(), "/project", "app", "php", "artisan", "migrate", "--force")

	// --- Assert ---
	require.NoError(t, err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []string{"compose", "exec", "-T", "app", "php", "artisan", "migrate", "--force"}, calls[0].Args)
}
