package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/museum-data/museum-admin/internal/api/openapi"
	"github.com/museum-data/museum-admin/internal/config"
)

const serviceName = "museum-admin"

// ReadinessChecker — проверка готовности одной зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// DependencyReporter — состояние зависимостей по данным topologymetrics.
type DependencyReporter interface {
	Health() map[string]bool
}

// severity — статусы проверок по возрастанию тяжести.
var severity = []string{"ok", "degraded", "fail"}

type readinessCheck struct {
	name    string
	checker ReadinessChecker
	// ifNil — результат, если checker не задан.
	ifNil healthCheckResult
}

// HealthHandler обслуживает /health/*, /metrics и /api/openapi.yaml.
type HealthHandler struct {
	checks      []readinessCheck
	deps        DependencyReporter
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик. jwksChecker равен nil, если
// аутентификация отключена; deps может быть nil.
func NewHealthHandler(pgChecker, jwksChecker ReadinessChecker, deps DependencyReporter) *HealthHandler {
	return &HealthHandler{
		checks: []readinessCheck{
			{"postgresql", pgChecker, healthCheckResult{Status: "fail", Message: "не инициализирован"}},
			{"jwks", jwksChecker, healthCheckResult{Status: "ok", Message: "аутентификация отключена"}},
		},
		deps:        deps,
		promHandler: promhttp.Handler(),
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

type healthReadyResponse struct {
	healthLiveResponse
	Checks       map[string]healthCheckResult `json:"checks"`
	Dependencies map[string]bool              `json:"dependencies,omitempty"`
}

func stamp(status string) healthLiveResponse {
	return healthLiveResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}
}

// HealthLive отвечает 200, пока процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stamp("ok"))
}

// HealthReady опрашивает зависимости: 200 при ok/degraded, 503 при fail.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	checks := make(map[string]healthCheckResult, len(h.checks))
	statuses := make([]string, 0, len(h.checks))
	for _, c := range h.checks {
		res := c.ifNil
		if c.checker != nil {
			res.Status, res.Message = c.checker.CheckReady()
		}
		checks[c.name] = res
		statuses = append(statuses, res.Status)
	}

	resp := healthReadyResponse{
		healthLiveResponse: stamp(overallStatus(statuses...)),
		Checks:             checks,
	}
	if h.deps != nil {
		resp.Dependencies = h.deps.Health()
	}

	code := http.StatusOK
	if resp.Status == "fail" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// GetOpenAPISpec отдаёт встроенный OpenAPI-контракт.
func (h *HealthHandler) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Spec())
}

// overallStatus — самый тяжёлый из статусов; неизвестный статус считается fail.
func overallStatus(statuses ...string) string {
	worst := 0
	for _, s := range statuses {
		i := slices.Index(severity, s)
		if i < 0 {
			i = len(severity) - 1
		}
		worst = max(worst, i)
	}
	return severity[worst]
}
