// Package stack defines the declarative model of the service topology the
// bootstrapper assembles: the two project skeletons, the backing services
// (database, cache, search engine), and the host ports everything is
// published on.
//
// The model is loaded from an optional HCL stack file; in its absence the
// built-in defaults reproduce the fixed topology, so a bare invocation
// needs no configuration at all.
package stack

import (
	"fmt"
	"time"
)

// Project names the application and the two project directories created
// inside the working directory.
type Project struct {
	Name        string
	BackendDir  string
	FrontendDir string
}

// Database describes the relational database service. Host is the
// service name peers resolve inside the compose network; Port is the
// host-published side of the mapping.
type Database struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	// RootPassword is only used by the database container itself.
	RootPassword string
}

// Service is a single backing service: the name peers resolve inside the
// compose network and the port it is published on host-side.
type Service struct {
	Host string
	Port int
}

// Search describes the search engine service.
type Search struct {
	Host      string
	Port      int
	MasterKey string
}

// Inside the compose network the backing containers always listen on
// their images' default ports; the Port fields above only choose where
// each service is published on the host.
const (
	InternalDatabasePort = 3306
	InternalCachePort    = 6379
	InternalSearchPort   = 7700
)

// Ports lists the host-published ports enumerated in the final summary.
type Ports struct {
	API     int
	Web     int
	DBAdmin int
}

// Stack is the fully-resolved topology model.
type Stack struct {
	Project  Project
	Database Database
	Cache    Service
	Search   Search
	Ports    Ports
	Warmup   time.Duration
}

// Default returns the built-in topology used when no stack file is present.
func Default() *Stack {
	return &Stack{
		Project: Project{
			Name:        "laravel",
			BackendDir:  "backend",
			FrontendDir: "frontend",
		},
		Database: Database{
			Host:         "mysql",
			Port:         3306,
			Name:         "laravel",
			User:         "laravel",
			Password:     "secret",
			RootPassword: "secret",
		},
		Cache:  Service{Host: "redis", Port: 6379},
		Search: Search{Host: "meilisearch", Port: 7700, MasterKey: "masterKey"},
		Ports:  Ports{API: 8000, Web: 5173, DBAdmin: 8080},
		Warmup: 30 * time.Second,
	}
}

// Validate checks the resolved model for values no topology can work with.
func (s *Stack) Validate() error {
	if s.Project.Name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if s.Project.BackendDir == "" || s.Project.FrontendDir == "" {
		return fmt.Errorf("project %q: backend_dir and frontend_dir must not be empty", s.Project.Name)
	}
	if s.Project.BackendDir == s.Project.FrontendDir {
		return fmt.Errorf("project %q: backend_dir and frontend_dir must differ", s.Project.Name)
	}
	for _, p := range []struct {
		name string
		port int
	}{
		{"database", s.Database.Port},
		{"cache", s.Cache.Port},
		{"search", s.Search.Port},
		{"ports.api", s.Ports.API},
		{"ports.web", s.Ports.Web},
		{"ports.db_ui", s.Ports.DBAdmin},
	} {
		if p.port < 1 || p.port > 65535 {
			return fmt.Errorf("%s: port %d out of range", p.name, p.port)
		}
	}
	if s.Warmup < 0 {
		return fmt.Errorf("warmup_seconds must not be negative")
	}
	return nil
}

// APIBaseURL is the browser-facing base URL of the HTTP API, written into
// the frontend environment file.
func (s *Stack) APIBaseURL() string {
	return fmt.Sprintf("http://localhost:%d/api", s.Ports.API)
}

// Endpoint is a named, host-reachable service URL.
type Endpoint struct {
	Name string
	URL  string
}

// Endpoints enumerates the HTTP services a developer can reach from the
// host once the stack is up. Raw TCP services (database, cache) are not
// listed; they are probed through their admin UIs.
func (s *Stack) Endpoints() []Endpoint {
	return []Endpoint{
		{Name: "API", URL: fmt.Sprintf("http://localhost:%d", s.Ports.API)},
		{Name: "Frontend", URL: fmt.Sprintf("http://localhost:%d", s.Ports.Web)},
		{Name: "Database UI", URL: fmt.Sprintf("http://localhost:%d", s.Ports.DBAdmin)},
		{Name: "Search", URL: fmt.Sprintf("http://localhost:%d/health", s.Search.Port)},
	}
}
