package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/glidebrowser/glide/internal/agent"
	"github.com/glidebrowser/glide/internal/config"
	"github.com/glidebrowser/glide/internal/frame"
	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/monitoring"
	"github.com/glidebrowser/glide/internal/providers/settings"
	"github.com/glidebrowser/glide/internal/providers/workflow"
	"github.com/glidebrowser/glide/internal/script"
	"github.com/glidebrowser/glide/internal/tabs"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	registry  *tabs.Registry
	host      *frame.Host
	executor  *agent.Executor
	recorder  *workflow.Recorder
	workflows *workflow.Store
	settings  *settings.Store
	scripts   *script.Pool
	agentCfg  config.AgentConfig
	metrics   *monitoring.Metrics
	log       *logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(
	registry *tabs.Registry,
	host *frame.Host,
	executor *agent.Executor,
	recorder *workflow.Recorder,
	workflows *workflow.Store,
	settingsStore *settings.Store,
	scripts *script.Pool,
	agentCfg config.AgentConfig,
	metrics *monitoring.Metrics,
	log *logging.Logger,
) *Handlers {
	return &Handlers{
		registry:  registry,
		host:      host,
		executor:  executor,
		recorder:  recorder,
		workflows: workflows,
		settings:  settingsStore,
		scripts:   scripts,
		agentCfg:  agentCfg,
		metrics:   metrics,
		log:       log.For("http"),
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Glide Shell",
		"version": "0.3.0",
	})
}

// Health handles the health check.
func (h *Handlers) Health(c *gin.Context) {
	state, message := h.registry.LoadState()
	payload := gin.H{
		"status": "healthy",
		"tabs":   len(h.registry.Tabs()),
		"load_state": gin.H{
			"state":   state,
			"message": message,
		},
		"scripts": h.scripts.Stats(),
	}
	if h.metrics != nil {
		payload["uptime_seconds"] = int64(h.metrics.Uptime().Seconds())
	}
	c.JSON(http.StatusOK, payload)
}

// tabID parses the :id route parameter.
func tabID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tab id"})
		return 0, false
	}
	return id, true
}

// tabSnapshot is the tab list plus shell-level navigation state.
func (h *Handlers) tabSnapshot() gin.H {
	state, message := h.registry.LoadState()
	active := h.registry.ActiveID()
	return gin.H{
		"tabs":        h.registry.Tabs(),
		"active_id":   active,
		"state":       state,
		"message":     message,
		"can_back":    h.registry.CanGoBack(active),
		"can_forward": h.registry.CanGoForward(active),
	}
}
