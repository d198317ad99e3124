// Package probe performs HTTP reachability checks against the stack's
// host-published endpoints. It backs the status command only: the bootstrap
// pipeline itself deliberately uses a fixed warm-up sleep, not a probe.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stackpilot/stackpilot/internal/ctxlog"
	"github.com/stackpilot/stackpilot/internal/stack"
)

// requestTimeout bounds each individual endpoint check.
const requestTimeout = 3 * time.Second

// Result is the outcome of probing one endpoint.
type Result struct {
	Endpoint stack.Endpoint
	OK       bool
	Detail   string // HTTP status, or the error that prevented a response
}

// Prober checks endpoints with a shared HTTP client.
type Prober struct {
	client *http.Client
}

// New returns a Prober. A nil client falls back to a default one.
func New(client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	return &Prober{client: client}
}

// Check probes every endpoint in order and returns one result per
// endpoint. A non-2xx response still counts as reachable; only transport
// failures mark an endpoint down.
func (p *Prober) Check(ctx context.Context, endpoints []stack.Endpoint) []Result {
	results := make([]Result, 0, len(endpoints))
	for _, ep := range endpoints {
		results = append(results, p.checkOne(ctx, ep))
	}
	return results
}

func (p *Prober) checkOne(ctx context.Context, ep stack.Endpoint) Result {
	logger := ctxlog.FromContext(ctx).With("endpoint", ep.Name)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return Result{Endpoint: ep, OK: false, Detail: fmt.Sprintf("invalid URL: %v", err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debug("Endpoint unreachable.", "error", err)
		return Result{Endpoint: ep, OK: false, Detail: err.Error()}
	}
	defer resp.Body.Close()

	logger.Debug("Endpoint responded.", "status", resp.Status)
	return Result{Endpoint: ep, OK: true, Detail: resp.Status}
}
