// Package health serves liveness and readiness probes. Readiness checks run
// against registered dependencies on demand; liveness is a flag the
// application flips during startup and shutdown.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one dependency. It returns nil when the dependency is
// healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Service aggregates liveness and readiness checks behind /livez and
// /readyz endpoints.
type Service struct {
	mu     sync.Mutex
	live   []check
	checks []check
	ready  atomic.Bool
}

// New returns a Service that reports not-ready until SetReady(true).
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check against the process itself (a goroutine
// leak, for example). A failing liveness check tells the platform to restart
// the process.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = append(s.live, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a named dependency probe with a per-call
// timeout.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = append(s.checks, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the readiness flag. The application sets it false before
// draining on shutdown so load balancers stop routing new requests.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// LiveEndpoint runs the liveness checks. With none registered the process is
// alive as soon as it serves HTTP.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	live := make([]check, len(s.live))
	copy(live, s.live)
	s.mu.Unlock()

	if len(live) == 0 {
		writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status, result := runChecks(r.Context(), live)
	writeStatus(w, status, result)
}

// ReadyEndpoint runs every registered check and reports 503 when the service
// is draining or any dependency fails.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "draining"})
		return
	}

	s.mu.Lock()
	checks := make([]check, len(s.checks))
	copy(checks, s.checks)
	s.mu.Unlock()

	status, result := runChecks(r.Context(), checks)
	writeStatus(w, status, result)
}

func runChecks(ctx context.Context, checks []check) (int, map[string]string) {
	result := make(map[string]string, len(checks))
	status := http.StatusOK
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()
		if err != nil {
			result[c.name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		result[c.name] = "ok"
	}
	return status, result
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
