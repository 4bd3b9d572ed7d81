package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/agent"
	"github.com/glidebrowser/glide/internal/providers/llm"
	"github.com/glidebrowser/glide/internal/shared/types"
)

// Command runs the natural-language pipeline: parse the instruction
// into actions, execute them as a batch, and report per-action
// results. An instruction no rule matches yields an empty batch, not
// an error.
func (h *Handlers) Command(c *gin.Context) {
	var req types.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actions, err := h.parseCommand(c, req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, llm.ErrMissingCredential) || errors.Is(err, llm.ErrUnknownProvider) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if len(actions) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"actions": []types.Action{},
			"results": []types.ActionResult{},
			"message": "no actions recognized",
		})
		return
	}

	h.runBatch(c, actions)
}

// parseCommand picks the parser: the rule table by default, a language
// model when the request names a provider.
func (h *Handlers) parseCommand(c *gin.Context, req types.CommandRequest) ([]types.Action, error) {
	if req.Provider == "" || req.Provider == "rules" {
		return agent.Parse(req.Text), nil
	}
	provider, err := llm.New(req.Provider, h.agentCfg, h.log)
	if err != nil {
		return nil, err
	}
	return llm.ParseActions(c.Request.Context(), provider, req.Text)
}

// Batch executes a pre-parsed action list.
func (h *Handlers) Batch(c *gin.Context) {
	var req types.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.runBatch(c, req.Actions)
}

// runBatch executes actions and reports results. A busy executor is a
// conflict: one batch at a time.
func (h *Handlers) runBatch(c *gin.Context, actions []types.Action) {
	start := time.Now()
	results, err := h.executor.ExecuteBatch(actions)
	if err != nil {
		if errors.Is(err, agent.ErrBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, res := range results {
		h.recorder.Observe(res)
		if h.metrics != nil {
			h.metrics.RecordAction(string(res.Action.Kind), res.Success)
		}
	}
	if h.metrics != nil {
		h.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}

	h.log.Info("batch finished", zap.Int("actions", len(actions)))
	c.JSON(http.StatusOK, gin.H{"actions": actions, "results": results})
}

// Script evaluates a sandboxed script against the active tab's frame.
// The frame may be absent (home state): the script then runs detached,
// with no document injected.
func (h *Handlers) Script(c *gin.Context) {
	var req types.ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fr, _ := h.host.Frame(h.registry.ActiveID())
	result, err := h.scripts.Execute(c.Request.Context(), req.Script, fr)
	if h.metrics != nil {
		h.metrics.RecordScriptRun(err)
	}
	if err != nil {
		payload := gin.H{"error": err.Error()}
		if result != nil {
			payload["console"] = result.Console
		}
		c.JSON(http.StatusUnprocessableEntity, payload)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"value":       result.Value,
		"console":     result.Console,
		"duration_ms": result.Duration.Milliseconds(),
	})
}
