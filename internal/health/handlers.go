package health

import (
	"context"
	"net/http"

	"github.com/noah-isme/checkout-pricing/internal/common"
)

// Checker reports whether a dependency is ready to serve traffic.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checks map[string]Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on the registered checks.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if len(h.Checks) == 0 {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	status := make(map[string]string, len(h.Checks))
	ready := true
	for name, check := range h.Checks {
		if err := check.Check(r.Context()); err != nil {
			status[name] = err.Error()
			ready = false
			continue
		}
		status[name] = "ok"
	}
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	common.JSON(w, code, status)
}
