// Package envfile rewrites dotenv-style configuration files in place.
//
// Rewrites are line-preserving: comments, blank lines, and the order of
// untouched entries survive, which keeps the generated framework .env
// recognizable after the bootstrap pass.
package envfile

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Var is a single key=value assignment to apply.
type Var struct {
	Key   string
	Value string
}

// Rewrite replaces the values of the given keys in the env file at path.
// Keys already present are rewritten in place; keys not present are
// appended at the end in the order given. It returns the keys whose
// effective values changed.
//
// The write is unconditional for present keys, so re-running is destructive
// to manual edits.
func Rewrite(path string, vars []Var) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	previous, err := godotenv.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}

	want := make(map[string]string, len(vars))
	for _, v := range vars {
		want[v.Key] = v.Value
	}

	lines := strings.Split(string(raw), "\n")
	seen := make(map[string]bool, len(vars))
	for i, line := range lines {
		key, ok := keyOf(line)
		if !ok {
			continue
		}
		value, replace := want[key]
		if !replace {
			continue
		}
		lines[i] = key + "=" + quote(value)
		seen[key] = true
	}

	for _, v := range vars {
		if !seen[v.Key] {
			lines = append(lines, v.Key+"="+quote(v.Value))
		}
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return nil, fmt.Errorf("write env file: %w", err)
	}

	var changed []string
	for _, v := range vars {
		if previous[v.Key] != v.Value {
			changed = append(changed, v.Key)
		}
	}
	return changed, nil
}

// WriteFile writes a complete env file from the given assignments,
// overwriting whatever was there. Used for files the bootstrapper owns
// outright, like the frontend environment file.
func WriteFile(path string, vars []Var) error {
	values := make(map[string]string, len(vars))
	for _, v := range vars {
		values[v.Key] = v.Value
	}
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("write env file %s: %w", path, err)
	}
	return nil
}

// quote wraps values that would otherwise parse lossily. A bare value
// ends at the first whitespace or # on the line, so anything containing
// those characters (or a quote) is emitted double-quoted and escaped.
func quote(value string) string {
	if strings.ContainsAny(value, " \t#\"'\\") {
		return strconv.Quote(value)
	}
	return value
}

// keyOf extracts the assignment key from a single env file line. Comment
// and blank lines yield ok=false.
func keyOf(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	key, _, found := strings.Cut(trimmed, "=")
	if !found {
		return "", false
	}
	key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
	if key == "" {
		return "", false
	}
	return key, true
}
