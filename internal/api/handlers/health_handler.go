package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck é uma dependência verificada pelos endpoints de saúde.
// Checks críticos decidem a readiness; os demais só aparecem em /health.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandler gerencia os endpoints de health check
type HealthHandler struct {
	checks []HealthCheck
	policy string
}

// NewHealthHandler cria um novo handler de health check
func NewHealthHandler(policy string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		policy: policy,
	}
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status    string            `json:"status"`
	Policy    string            `json:"policy,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe endpoint
// @Description Verifica se a aplicação está viva (sem checagem de dependências externas)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe endpoint
// @Description Verifica se a aplicação está pronta para receber tráfego (valida a fonte de conteúdo)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ready",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	for _, check := range h.checks {
		if !check.Critical {
			continue
		}
		if err := check.Check(ctx); err != nil {
			response.Checks[check.Name] = "failed"
			response.Status = "not_ready"
			response.Error = check.Name + " not available"
			continue
		}
		response.Checks[check.Name] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// Health godoc
// @Summary Comprehensive health check endpoint
// @Description Verifica a saúde completa da aplicação (para monitoramento externo de uptime). Falha em dependência opcional, como o cache, resulta em "degraded" com status 200.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Policy:    h.policy,
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			response.Checks[check.Name] = "failed"
			if check.Critical {
				response.Status = "unhealthy"
				response.Error = check.Name + " connectivity check failed"
			} else if response.Status == "healthy" {
				response.Status = "degraded"
			}
			continue
		}
		response.Checks[check.Name] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
