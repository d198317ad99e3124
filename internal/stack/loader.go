package stack

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot mirrors the top-level structure of a stack file. Every block is
// optional; anything omitted falls back to the built-in defaults.
type fileRoot struct {
	Project       *projectBlock  `hcl:"project,block"`
	Database      *databaseBlock `hcl:"database,block"`
	Cache         *serviceBlock  `hcl:"cache,block"`
	Search        *searchBlock   `hcl:"search,block"`
	Ports         *portsBlock    `hcl:"ports,block"`
	WarmupSeconds *int           `hcl:"warmup_seconds,optional"`
}

type projectBlock struct {
	Name        string  `hcl:"name,label"`
	BackendDir  *string `hcl:"backend_dir,optional"`
	FrontendDir *string `hcl:"frontend_dir,optional"`
}

type databaseBlock struct {
	Host         *string `hcl:"host,optional"`
	Port         *int    `hcl:"port,optional"`
	Name         *string `hcl:"name,optional"`
	User         *string `hcl:"user,optional"`
	Password     *string `hcl:"password,optional"`
	RootPassword *string `hcl:"root_password,optional"`
}

type serviceBlock struct {
	Host *string `hcl:"host,optional"`
	Port *int    `hcl:"port,optional"`
}

type searchBlock struct {
	Host      *string `hcl:"host,optional"`
	Port      *int    `hcl:"port,optional"`
	MasterKey *string `hcl:"master_key,optional"`
}

type portsBlock struct {
	API     *int `hcl:"api,optional"`
	Web     *int `hcl:"web,optional"`
	DBAdmin *int `hcl:"db_ui,optional"`
}

// Load reads and validates a stack file, merging it over the defaults.
// An empty path, or a path that does not exist, yields the default stack.
func Load(path string) (*Stack, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse stack file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode stack file %s: %w", path, diags)
	}

	merge(s, &root)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stack file %s: %w", path, err)
	}
	return s, nil
}

// evalContext exposes the process environment to stack file expressions as
// the `env` object, so credentials can be written as `password = env.DB_PASSWORD`
// instead of being committed in plain text.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, entry := range os.Environ() {
		key, value, found := strings.Cut(entry, "=")
		if found && key != "" {
			vars[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

// merge overlays every attribute a stack file actually set onto the
// defaults. The project name, when present, also renames the database
// schema and its user unless the file pins those explicitly.
func merge(s *Stack, root *fileRoot) {
	if p := root.Project; p != nil {
		s.Project.Name = p.Name
		s.Database.Name = p.Name
		s.Database.User = p.Name
		setString(&s.Project.BackendDir, p.BackendDir)
		setString(&s.Project.FrontendDir, p.FrontendDir)
	}
	if d := root.Database; d != nil {
		setString(&s.Database.Host, d.Host)
		setInt(&s.Database.Port, d.Port)
		setString(&s.Database.Name, d.Name)
		setString(&s.Database.User, d.User)
		setString(&s.Database.Password, d.Password)
		setString(&s.Database.RootPassword, d.RootPassword)
	}
	if c := root.Cache; c != nil {
		setString(&s.Cache.Host, c.Host)
		setInt(&s.Cache.Port, c.Port)
	}
	if se := root.Search; se != nil {
		setString(&s.Search.Host, se.Host)
		setInt(&s.Search.Port, se.Port)
		setString(&s.Search.MasterKey, se.MasterKey)
	}
	if p := root.Ports; p != nil {
		setInt(&s.Ports.API, p.API)
		setInt(&s.Ports.Web, p.Web)
		setInt(&s.Ports.DBAdmin, p.DBAdmin)
	}
	if root.WarmupSeconds != nil {
		s.Warmup = time.Duration(*root.WarmupSeconds) * time.Second
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
