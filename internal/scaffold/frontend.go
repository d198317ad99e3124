package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stackpilot/stackpilot/internal/ctxlog"
	"github.com/stackpilot/stackpilot/internal/dockercli"
	"github.com/stackpilot/stackpilot/internal/envfile"
	"github.com/stackpilot/stackpilot/internal/fsutil"
	"github.com/stackpilot/stackpilot/internal/pipeline"
)

// CreateFrontend materializes the client-side project skeleton via the
// node scaffolding container. Skipped when the frontend directory already
// exists.
func (s *Scaffolder) CreateFrontend(ctx context.Context) (pipeline.Status, error) {
	if fsutil.DirExists(s.FrontendDir()) {
		ctxlog.FromContext(ctx).Info("Frontend directory already exists, not recreating.", "dir", s.stack.Project.FrontendDir)
		return pipeline.StatusSkipped, nil
	}

	err := s.client.RunOneShot(ctx, dockercli.OneShot{
		Image:   nodeImage,
		Mount:   s.workDir,
		Workdir: "/app",
		Cmd:     []string{"npm", "create", "vite@latest", s.stack.Project.FrontendDir, "--", "--template", "react"},
	})
	if err != nil {
		return pipeline.StatusFailed, fmt.Errorf("create frontend project: %w", err)
	}
	return pipeline.StatusRan, nil
}

// InstallFrontendDeps installs the frontend package dependencies: the base
// package set, the CSS utility framework toolchain, and the routing and
// data-fetching libraries.
func (s *Scaffolder) InstallFrontendDeps(ctx context.Context) (pipeline.Status, error) {
	installs := [][]string{
		{"npm", "install"},
		{"npm", "install", "-D", "tailwindcss", "postcss", "autoprefixer"},
		{"npm", "install", "react-router-dom", "axios", "@tanstack/react-query"},
	}
	for _, cmd := range installs {
		err := s.client.RunOneShot(ctx, dockercli.OneShot{
			Image:   nodeImage,
			Mount:   s.FrontendDir(),
			Workdir: "/app",
			Cmd:     cmd,
		})
		if err != nil {
			return pipeline.StatusFailed, fmt.Errorf("install frontend dependencies: %w", err)
		}
	}
	return pipeline.StatusRan, nil
}

// InitTailwind generates the CSS framework configuration inside the
// frontend project.
func (s *Scaffolder) InitTailwind(ctx context.Context) (pipeline.Status, error) {
	err := s.client.RunOneShot(ctx, dockercli.OneShot{
		Image:   nodeImage,
		Mount:   s.FrontendDir(),
		Workdir: "/app",
		Cmd:     []string{"npx", "tailwindcss", "init", "-p"},
	})
	if err != nil {
		return pipeline.StatusFailed, fmt.Errorf("init tailwind: %w", err)
	}
	return pipeline.StatusRan, nil
}

// WriteFrontendFiles overwrites the frontend environment file, the CSS
// framework config, and the global stylesheet with fixed content. Always
// applied, even over manual edits.
func (s *Scaffolder) WriteFrontendFiles(ctx context.Context) (pipeline.Status, error) {
	envPath := filepath.Join(s.FrontendDir(), ".env")
	err := envfile.WriteFile(envPath, []envfile.Var{
		{Key: "VITE_API_BASE_URL", Value: s.stack.APIBaseURL()},
	})
	if err != nil {
		return pipeline.StatusFailed, err
	}

	files := map[string]string{
		"tailwind.config.js":              tailwindConfig,
		filepath.Join("src", "index.css"): globalStylesheet,
	}
	for rel, content := range files {
		path := filepath.Join(s.FrontendDir(), rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return pipeline.StatusFailed, fmt.Errorf("write frontend files: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return pipeline.StatusFailed, fmt.Errorf("write %s: %w", rel, err)
		}
	}

	ctxlog.FromContext(ctx).Debug("Frontend files written.", "env", envPath)
	return pipeline.StatusRan, nil
}
