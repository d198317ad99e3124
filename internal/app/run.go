package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/stackpilot/stackpilot/internal/compose"
	"github.com/stackpilot/stackpilot/internal/ctxlog"
	"github.com/stackpilot/stackpilot/internal/pipeline"
	"github.com/stackpilot/stackpilot/internal/probe"
	"github.com/stackpilot/stackpilot/internal/scaffold"
)

// composeFileName is the manifest rendered into the working directory.
const composeFileName = "docker-compose.yaml"

// Run executes the selected command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	switch a.config.Command {
	case CommandUp:
		return a.runUp(ctx)
	case CommandDown:
		return a.runDown(ctx)
	case CommandStatus:
		return a.runStatus(ctx)
	default:
		// NewConfig already rejected anything else.
		return fmt.Errorf("unknown command %q", a.config.Command)
	}
}

// runUp executes the bootstrap pipeline: runtime check, both project
// skeletons, configuration rewrites, container build/start, warm-up, and
// the database schema migration. Steps run strictly in order; the first
// failure aborts the run with no rollback.
func (a *App) runUp(ctx context.Context) error {
	client, err := a.dockerClient()
	if err != nil {
		return err
	}

	// The runtime check happens before any mutation so an unavailable
	// daemon leaves the working directory untouched.
	if err := client.Ping(ctx); err != nil {
		return err
	}
	a.logger.Debug("Container runtime responded.")

	sc, err := scaffold.New(client, a.stack, a.config.WorkDir)
	if err != nil {
		return err
	}
	composePath := filepath.Join(a.config.WorkDir, composeFileName)

	p := pipeline.New().
		Add("backend skeleton", sc.CreateBackend).
		Add("backend permissions", sc.FixPermissions).
		Add("backend env", sc.RewriteBackendEnv).
		Add("frontend skeleton", sc.CreateFrontend).
		Add("frontend dependencies", sc.InstallFrontendDeps).
		Add("tailwind init", sc.InitTailwind).
		Add("frontend files", sc.WriteFrontendFiles).
		Add("compose manifest", func(ctx context.Context) (pipeline.Status, error) {
			if err := compose.WriteFile(composePath, a.stack); err != nil {
				return pipeline.StatusFailed, err
			}
			return pipeline.StatusRan, nil
		}).
		Add("compose build", func(ctx context.Context) (pipeline.Status, error) {
			if err := client.Compose(ctx, a.config.WorkDir, "build"); err != nil {
				return pipeline.StatusFailed, err
			}
			return pipeline.StatusRan, nil
		}).
		Add("compose up", func(ctx context.Context) (pipeline.Status, error) {
			if err := client.Compose(ctx, a.config.WorkDir, "up", "-d"); err != nil {
				return pipeline.StatusFailed, err
			}
			return pipeline.StatusRan, nil
		}).
		Add("warm-up", a.warmupStep()).
		Add("database migration", func(ctx context.Context) (pipeline.Status, error) {
			if err := client.ComposeExec(ctx, a.config.WorkDir, "app", "php", "artisan", "migrate", "--force"); err != nil {
				return pipeline.StatusFailed, err
			}
			return pipeline.StatusRan, nil
		})

	a.logger.Info("🚀 Starting bootstrap pipeline.", "steps", p.Len())
	results, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	var skipped int
	for _, r := range results {
		if r.Status == pipeline.StatusSkipped {
			skipped++
		}
	}
	a.logger.Info("🏁 Bootstrap pipeline finished.", "ran", len(results)-skipped, "skipped", skipped)

	a.printSummary()
	return nil
}

// warmupStep blocks for the fixed warm-up interval. This is a blind sleep,
// not a readiness probe: if the services need longer, the migration step
// fails and the run aborts with no retry.
func (a *App) warmupStep() pipeline.StepFunc {
	return func(ctx context.Context) (pipeline.Status, error) {
		if a.stack.Warmup <= 0 {
			return pipeline.StatusSkipped, nil
		}
		ctxlog.FromContext(ctx).Info("Waiting for services to initialize.", "duration", a.stack.Warmup)
		select {
		case <-time.After(a.stack.Warmup):
			return pipeline.StatusRan, nil
		case <-ctx.Done():
			return pipeline.StatusFailed, ctx.Err()
		}
	}
}

// runDown stops and removes the declared containers.
func (a *App) runDown(ctx context.Context) error {
	client, err := a.dockerClient()
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		return err
	}

	a.logger.Info("🛑 Stopping stack.")
	if err := client.Compose(ctx, a.config.WorkDir, "down"); err != nil {
		return fmt.Errorf("stop stack: %w", err)
	}
	a.logger.Info("🏁 Stack stopped.")
	return nil
}

// runStatus probes every host-published HTTP endpoint and prints a
// reachability report. Purely informational; always exits zero.
func (a *App) runStatus(ctx context.Context) error {
	prober := probe.New(nil)
	results := prober.Check(ctx, a.stack.Endpoints())

	fmt.Fprintln(a.outW)
	for _, r := range results {
		mark := "✅"
		if !r.OK {
			mark = "❌"
		}
		fmt.Fprintf(a.outW, "  %s %-12s %-30s %s\n", mark, r.Endpoint.Name, r.Endpoint.URL, r.Detail)
	}
	fmt.Fprintln(a.outW)
	return nil
}

// printSummary writes the fixed, human-readable endpoint and credential
// summary after a successful bootstrap.
func (a *App) printSummary() {
	st := a.stack
	w := a.outW

	fmt.Fprintf(w, "\n🎉 %s development stack is up!\n\n", st.Project.Name)
	fmt.Fprintf(w, "  API            http://localhost:%d\n", st.Ports.API)
	fmt.Fprintf(w, "  Frontend       http://localhost:%d\n", st.Ports.Web)
	fmt.Fprintf(w, "  Database UI    http://localhost:%d\n", st.Ports.DBAdmin)
	fmt.Fprintf(w, "  Search         http://localhost:%d (key: %s)\n", st.Search.Port, st.Search.MasterKey)
	fmt.Fprintf(w, "  MySQL          localhost:%d (%s / %s, database: %s)\n", st.Database.Port, st.Database.User, st.Database.Password, st.Database.Name)
	fmt.Fprintf(w, "  Redis          localhost:%d\n\n", st.Cache.Port)
}
