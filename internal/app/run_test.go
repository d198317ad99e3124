package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/stackpilot/stackpilot/internal/dockercli"
	"github.com/stackpilot/stackpilot/internal/testutil"
)

const testStackFile = `
warmup_seconds = 0
`

const backendEnvFixture = `APP_NAME=Laravel
DB_CONNECTION=sqlite
REDIS_HOST=127.0.0.1
`

// newTestApp builds an App against a fake runner in a fresh working
// directory, with the warm-up sleep disabled.
func newTestApp(t *testing.T, command string, runner *testutil.FakeRunner) (*App, *testutil.SafeBuffer, string) {
	t.Helper()

	workDir := t.TempDir()
	stackPath := filepath.Join(workDir, "stack.hcl")
	require.NoError(t, os.WriteFile(stackPath, []byte(testStackFile), 0644))

	cfg, err := NewConfig(Config{
		Command:   command,
		StackPath: stackPath,
		WorkDir:   workDir,
		LogLevel:  "debug",
		LogFormat: "text",
	})
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	return NewApp(out, cfg, runner), out, workDir
}

func TestRunUp_FreshDirectory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	pilot, out, workDir := newTestApp(t, CommandUp, runner)

	// --- Act ---
	err := pilot.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	joined := strings.Join(runner.Lines(), "\n")
	require.Contains(t, joined, "info --format", "the runtime check must run first")
	require.Contains(t, joined, "composer create-project laravel/laravel backend")
	require.Contains(t, joined, "npm create vite@latest frontend")
	require.Contains(t, joined, "npx tailwindcss init -p")
	require.Contains(t, joined, "compose build")
	require.Contains(t, joined, "compose up -d")
	require.Contains(t, joined, "compose exec -T app php artisan migrate --force")

	// The compose manifest and frontend files were materialized.
	require.FileExists(t, filepath.Join(workDir, "docker-compose.yaml"))
	require.FileExists(t, filepath.Join(workDir, "frontend", ".env"))

	// The human-readable summary is printed after success.
	require.Contains(t, out.String(), "development stack is up!")
	require.Contains(t, out.String(), "http://localhost:8000")
}

func TestRunUp_RuntimeCheckPrecedesEverything(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	pilot, _, _ := newTestApp(t, CommandUp, runner)

	// --- Act ---
	require.NoError(t, pilot.Run(context.Background()))

	// --- Assert ---
	calls := runner.Calls()
	require.NotEmpty(t, calls)
	require.Equal(t, "info", calls[0].Args[0])
}

func TestRunUp_SecondRunSkipsExistingProjects(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	pilot, _, workDir := newTestApp(t, CommandUp, runner)

	backendDir := filepath.Join(workDir, "backend")
	require.NoError(t, os.MkdirAll(backendDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(backendDir, ".env"), []byte(backendEnvFixture), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "frontend"), 0755))

	// --- Act ---
	err := pilot.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	joined := strings.Join(runner.Lines(), "\n")
	require.NotContains(t, joined, "create-project", "existing backend must not be recreated")
	require.NotContains(t, joined, "create vite", "existing frontend must not be recreated")
	// Dependency installation and container steps still run.
	require.Contains(t, joined, "npm install")
	require.Contains(t, joined, "compose up -d")

	// Config rewrites are applied unconditionally on every run.
	values, readErr := godotenv.Read(filepath.Join(backendDir, ".env"))
	require.NoError(t, readErr)
	require.Equal(t, "mysql", values["DB_HOST"])
	require.Equal(t, "redis", values["REDIS_HOST"])
	require.Equal(t, "meilisearch", values["SCOUT_DRIVER"])
}

func TestRunUp_RuntimeDownAbortsBeforeMutation(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{
		Hook: func(c testutil.Call) error {
			if c.Args[0] == "info" {
				return errors.New("cannot connect to the docker daemon")
			}
			return nil
		},
	}
	pilot, _, workDir := newTestApp(t, CommandUp, runner)

	// --- Act ---
	err := pilot.Run(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, dockercli.ErrRuntimeUnavailable)

	// Nothing was written: the working directory still only holds the
	// stack file the test itself created.
	entries, readErr := os.ReadDir(workDir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	require.Equal(t, "stack.hcl", entries[0].Name())
}

func TestRunUp_MigrationFailureAbortsRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{
		Hook: func(c testutil.Call) error {
			if strings.Contains(c.Line(), "artisan migrate") {
				return errors.New("SQLSTATE[HY000] [2002] Connection refused")
			}
			return nil
		},
	}
	pilot, out, _ := newTestApp(t, CommandUp, runner)

	// --- Act ---
	err := pilot.Run(context.Background())

	// --- Assert ---
	// No retry: the failure surfaces directly and the run aborts.
	require.Error(t, err)
	require.Contains(t, err.Error(), "database migration")
	require.NotContains(t, out.String(), "development stack is up!")
}

func TestRunStatus_ReportsEveryEndpoint(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// High ports so nothing on the test host is likely to be listening;
	// status reports reachability either way.
	workDir := t.TempDir()
	stackPath := filepath.Join(workDir, "stack.hcl")
	require.NoError(t, os.WriteFile(stackPath, []byte(`
search { port = 59874 }
ports {
  api   = 59871
  web   = 59872
  db_ui = 59873
}
`), 0644))

	cfg, err := NewConfig(Config{
		Command:   CommandStatus,
		StackPath: stackPath,
		WorkDir:   workDir,
		LogLevel:  "error",
		LogFormat: "text",
	})
	require.NoError(t, err)
	out := &testutil.SafeBuffer{}
	pilot := NewApp(out, cfg, &testutil.FakeRunner{})

	// --- Act ---
	runErr := pilot.Run(context.Background())

	// --- Assert ---
	require.NoError(t, runErr, "status is informational and must not fail")
	for _, want := range []string{"API", "Frontend", "Database UI", "Search", "http://localhost:59871"} {
		require.Contains(t, out.String(), want)
	}
}

func TestRunDown_StopsContainers(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &testutil.FakeRunner{}
	pilot, _, _ := newTestApp(t, CommandDown, runner)

	// --- Act ---
	err := pilot.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	joined := strings.Join(runner.Lines(), "\n")
	require.Contains(t, joined, "compose down")
}
