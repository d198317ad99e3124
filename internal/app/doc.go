// Package app wires the application together: it owns the logger, the
// resolved stack model, and the container runtime client, and dispatches
// the up, down, and status commands.
package app
