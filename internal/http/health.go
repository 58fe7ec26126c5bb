package http

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/circuitbreaker"
	"github.com/guttosm/packing-slip-service/internal/logger"
)

const readinessCheckTimeout = 2 * time.Second

// Readiness statuses.
const (
	ReadinessOK          = "ok"
	ReadinessDegraded    = "degraded"
	ReadinessUnavailable = "unavailable"
)

// HealthChecker probes a dependency.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a function such as MongoDB.HealthCheck to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Check calls f(ctx).
func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// DependencyOption configures how a dependency affects readiness.
type DependencyOption func(*dependency)

// Optional marks a dependency whose failure degrades the service without
// taking it out of rotation. The audit log store is one.
func Optional() DependencyOption {
	return func(d *dependency) { d.optional = true }
}

type dependency struct {
	checker  HealthChecker
	breaker  *circuitbreaker.CircuitBreaker
	optional bool
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// ReadinessResponse is the body of GET /readyz.
type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	mu           sync.RWMutex
	dependencies map[string]dependency
	timeout      time.Duration
}

// NewHealthHandler creates a HealthHandler with no dependencies.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		dependencies: make(map[string]dependency),
		timeout:      readinessCheckTimeout,
	}
}

// RegisterChecker adds a dependency probed on every readiness request.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker, opts ...DependencyOption) {
	h.register(name, dependency{checker: checker}, opts)
}

// RegisterCircuitBreaker adds a breaker whose open state fails the check.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker, opts ...DependencyOption) {
	if cb == nil {
		return
	}
	h.register(name+"_circuit", dependency{breaker: cb}, opts)
}

func (h *HealthHandler) register(name string, d dependency, opts []DependencyOption) {
	for _, opt := range opts {
		opt(&d)
	}
	h.mu.Lock()
	h.dependencies[name] = d
	h.mu.Unlock()
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving requests.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": ReadinessOK})
}

// Readiness handles the readiness probe endpoint. Checks run concurrently,
// each bounded by the check timeout. A failing required dependency answers
// 503; a failing optional one reports degraded with 200.
// @Summary     Readiness probe
// @Description Reports MongoDB reachability and storage circuit breaker states.
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessResponse "Service is ready"
// @Failure     503 {object} ReadinessResponse "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := h.evaluate(c.Request.Context())

	status := http.StatusOK
	if resp.Status == ReadinessUnavailable {
		status = http.StatusServiceUnavailable
		logger.FromContext(c.Request.Context()).Warn().
			Strs("failing", failingChecks(resp)).
			Msg("Readiness check failed")
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) evaluate(ctx context.Context) ReadinessResponse {
	h.mu.RLock()
	deps := make(map[string]dependency, len(h.dependencies))
	for name, d := range h.dependencies {
		deps[name] = d
	}
	h.mu.RUnlock()

	resp := ReadinessResponse{Status: ReadinessOK, Checks: make(map[string]CheckResult, len(deps))}
	if len(deps) == 0 {
		resp.Checks["service"] = CheckResult{Status: ReadinessOK}
		return resp
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, d := range deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := h.check(ctx, d)
			mu.Lock()
			resp.Checks[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, result := range resp.Checks {
		if result.Error == "" {
			continue
		}
		if !result.Optional {
			resp.Status = ReadinessUnavailable
			break
		}
		resp.Status = ReadinessDegraded
	}
	return resp
}

func (h *HealthHandler) check(ctx context.Context, d dependency) CheckResult {
	result := CheckResult{Status: ReadinessOK, Optional: d.optional}

	if d.breaker != nil {
		state := d.breaker.State()
		result.Status = state.String()
		if state == circuitbreaker.StateOpen {
			result.Error = circuitbreaker.ErrCircuitOpen.Error()
		}
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := d.checker.Check(ctx); err != nil {
		result.Status = "error"
		result.Error = err.Error()
	}
	return result
}

func failingChecks(resp ReadinessResponse) []string {
	var names []string
	for name, result := range resp.Checks {
		if result.Error != "" && !result.Optional {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
