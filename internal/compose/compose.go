// Package compose renders the docker-compose manifest for the declared
// service topology. Rendering it from the stack model keeps ports and
// credentials in one place instead of a second hand-maintained file.
package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stackpilot/stackpilot/internal/stack"
)

// Service is one entry under the compose `services` key.
type Service struct {
	Image       string            `yaml:"image"`
	WorkingDir  string            `yaml:"working_dir,omitempty"`
	Command     string            `yaml:"command,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Restart     string            `yaml:"restart,omitempty"`
}

// File is the top-level compose manifest.
type File struct {
	Services map[string]Service `yaml:"services"`
	Volumes  map[string]any     `yaml:"volumes,omitempty"`
}

// Build assembles the compose manifest for the given stack.
func Build(s *stack.Stack) *File {
	backing := []string{s.Database.Host, s.Cache.Host, s.Search.Host}

	services := map[string]Service{
		"app": {
			Image:      "php:8.3-cli",
			WorkingDir: "/var/www/html",
			Command:    "php artisan serve --host=0.0.0.0 --port=8000",
			Ports:      []string{fmt.Sprintf("%d:8000", s.Ports.API)},
			Volumes:    []string{"./" + s.Project.BackendDir + ":/var/www/html"},
			DependsOn:  backing,
			Restart:    "unless-stopped",
		},
		"web": {
			Image:      "node:20-alpine",
			WorkingDir: "/app",
			Command:    "npm run dev -- --host --port 5173",
			Ports:      []string{fmt.Sprintf("%d:5173", s.Ports.Web)},
			Volumes:    []string{"./" + s.Project.FrontendDir + ":/app"},
			Restart:    "unless-stopped",
		},
		s.Database.Host: {
			Image: "mysql:8.0",
			Ports: []string{fmt.Sprintf("%d:%d", s.Database.Port, stack.InternalDatabasePort)},
			Environment: map[string]string{
				"MYSQL_DATABASE":      s.Database.Name,
				"MYSQL_USER":          s.Database.User,
				"MYSQL_PASSWORD":      s.Database.Password,
				"MYSQL_ROOT_PASSWORD": s.Database.RootPassword,
			},
			Volumes: []string{"dbdata:/var/lib/mysql"},
			Restart: "unless-stopped",
		},
		"adminer": {
			Image:     "adminer:4",
			Ports:     []string{fmt.Sprintf("%d:8080", s.Ports.DBAdmin)},
			DependsOn: []string{s.Database.Host},
			Restart:   "unless-stopped",
		},
		s.Search.Host: {
			Image: "getmeili/meilisearch:v1.8",
			Ports: []string{fmt.Sprintf("%d:%d", s.Search.Port, stack.InternalSearchPort)},
			Environment: map[string]string{
				"MEILI_MASTER_KEY": s.Search.MasterKey,
				"MEILI_ENV":        "development",
			},
			Volumes: []string{"searchdata:/meili_data"},
			Restart: "unless-stopped",
		},
		s.Cache.Host: {
			Image:   "redis:7-alpine",
			Ports:   []string{fmt.Sprintf("%d:%d", s.Cache.Port, stack.InternalCachePort)},
			Restart: "unless-stopped",
		},
	}

	return &File{
		Services: services,
		Volumes: map[string]any{
			"dbdata":     nil,
			"searchdata": nil,
		},
	}
}

// Render marshals the manifest for the given stack to YAML.
func Render(s *stack.Stack) ([]byte, error) {
	out, err := yaml.Marshal(Build(s))
	if err != nil {
		return nil, fmt.Errorf("marshal compose manifest: %w", err)
	}
	return out, nil
}

// WriteFile renders the manifest and writes it to path, overwriting any
// existing file.
func WriteFile(path string, s *stack.Stack) error {
	out, err := Render(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write compose manifest: %w", err)
	}
	return nil
}
