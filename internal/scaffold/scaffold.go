// Package scaffold implements the project-materialization steps of the
// bootstrap pipeline: creating the backend and frontend skeletons through
// their package-manager containers, fixing filesystem permissions, and
// rewriting the configuration files for the networked service topology.
//
// Directory-creation steps are idempotent skips; configuration writes are
// applied unconditionally on every run.
package scaffold

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/stackpilot/stackpilot/internal/ctxlog"
	"github.com/stackpilot/stackpilot/internal/dockercli"
	"github.com/stackpilot/stackpilot/internal/envfile"
	"github.com/stackpilot/stackpilot/internal/fsutil"
	"github.com/stackpilot/stackpilot/internal/pipeline"
	"github.com/stackpilot/stackpilot/internal/stack"
)

// Tool container images used for one-shot scaffolding commands.
const (
	composerImage = "composer:2"
	nodeImage     = "node:20-alpine"
)

// ContainerClient is the subset of the docker client the scaffolder needs.
type ContainerClient interface {
	RunOneShot(ctx context.Context, o dockercli.OneShot) error
}

// Scaffolder materializes both project skeletons inside the working
// directory and points their configuration at the declared topology.
type Scaffolder struct {
	client  ContainerClient
	stack   *stack.Stack
	workDir string // absolute
}

// New returns a Scaffolder rooted at workDir.
func New(client ContainerClient, st *stack.Stack, workDir string) (*Scaffolder, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Scaffolder{client: client, stack: st, workDir: abs}, nil
}

// BackendDir is the absolute path of the server-side project.
func (s *Scaffolder) BackendDir() string {
	return filepath.Join(s.workDir, s.stack.Project.BackendDir)
}

// FrontendDir is the absolute path of the client-side project.
func (s *Scaffolder) FrontendDir() string {
	return filepath.Join(s.workDir, s.stack.Project.FrontendDir)
}

// CreateBackend materializes the server-side project skeleton via the
// composer container. Skipped when the backend directory already exists.
func (s *Scaffolder) CreateBackend(ctx context.Context) (pipeline.Status, error) {
	if fsutil.DirExists(s.BackendDir()) {
		ctxlog.FromContext(ctx).Info("Backend directory already exists, not recreating.", "dir", s.stack.Project.BackendDir)
		return pipeline.StatusSkipped, nil
	}

	err := s.client.RunOneShot(ctx, dockercli.OneShot{
		Image:   composerImage,
		Mount:   s.workDir,
		Workdir: "/app",
		Cmd:     []string{"composer", "create-project", "laravel/laravel", s.stack.Project.BackendDir},
	})
	if err != nil {
		return pipeline.StatusFailed, fmt.Errorf("create backend project: %w", err)
	}
	return pipeline.StatusRan, nil
}

// FixPermissions relaxes permissions on the framework's writable
// subdirectories so the app container can use them regardless of the UID
// the scaffolding container created them with.
func (s *Scaffolder) FixPermissions(ctx context.Context) (pipeline.Status, error) {
	for _, dir := range []string{"storage", filepath.Join("bootstrap", "cache")} {
		if err := fsutil.ChmodRecursive(filepath.Join(s.BackendDir(), dir), 0777); err != nil {
			return pipeline.StatusFailed, fmt.Errorf("fix permissions on %s: %w", dir, err)
		}
	}
	return pipeline.StatusRan, nil
}

// RewriteBackendEnv points the backend environment file at the networked
// service hostnames and appends the search-engine settings. Skipped when
// the file is absent; applied unconditionally otherwise, so re-running is
// destructive to manual edits.
func (s *Scaffolder) RewriteBackendEnv(ctx context.Context) (pipeline.Status, error) {
	logger := ctxlog.FromContext(ctx)

	path := filepath.Join(s.BackendDir(), ".env")
	if !fsutil.FileExists(path) {
		logger.Warn("Backend .env not found, leaving environment untouched.", "path", path)
		return pipeline.StatusSkipped, nil
	}

	// The app container reaches its peers over the compose network, where
	// every service listens on its image's default port regardless of how
	// it is published on the host.
	st := s.stack
	changed, err := envfile.Rewrite(path, []envfile.Var{
		{Key: "APP_NAME", Value: st.Project.Name},
		{Key: "DB_CONNECTION", Value: "mysql"},
		{Key: "DB_HOST", Value: st.Database.Host},
		{Key: "DB_PORT", Value: fmt.Sprintf("%d", stack.InternalDatabasePort)},
		{Key: "DB_DATABASE", Value: st.Database.Name},
		{Key: "DB_USERNAME", Value: st.Database.User},
		{Key: "DB_PASSWORD", Value: st.Database.Password},
		{Key: "CACHE_STORE", Value: "redis"},
		{Key: "REDIS_HOST", Value: st.Cache.Host},
		{Key: "REDIS_PORT", Value: fmt.Sprintf("%d", stack.InternalCachePort)},
		{Key: "SCOUT_DRIVER", Value: "meilisearch"},
		{Key: "MEILISEARCH_HOST", Value: fmt.Sprintf("http://%s:%d", st.Search.Host, stack.InternalSearchPort)},
		{Key: "MEILISEARCH_KEY", Value: st.Search.MasterKey},
	})
	if err != nil {
		return pipeline.StatusFailed, fmt.Errorf("rewrite backend env: %w", err)
	}

	logger.Debug("Backend environment rewritten.", "changed_keys", changed)
	return pipeline.StatusRan, nil
}
