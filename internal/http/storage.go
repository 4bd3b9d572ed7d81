package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glidebrowser/glide/internal/providers/workflow"
	"github.com/glidebrowser/glide/internal/shared/types"
)

// ListWorkflows returns all saved workflows, newest first.
func (h *Handlers) ListWorkflows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workflows": h.workflows.List()})
}

// GetWorkflow returns one workflow.
func (h *Handlers) GetWorkflow(c *gin.Context) {
	wf, ok := h.workflows.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "workflow not found"})
		return
	}
	c.JSON(http.StatusOK, wf)
}

// SaveWorkflow stores an explicit step sequence.
func (h *Handlers) SaveWorkflow(c *gin.Context) {
	var req types.WorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wf, err := h.workflows.Save(req.Name, req.Steps)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, wf)
}

// DeleteWorkflow removes a workflow.
func (h *Handlers) DeleteWorkflow(c *gin.Context) {
	if err := h.workflows.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReplayWorkflow converts a workflow back into actions and runs them
// as an ordinary batch.
func (h *Handlers) ReplayWorkflow(c *gin.Context) {
	actions, err := h.workflows.Actions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.runBatch(c, actions)
}

// StartRecording opens a teach-mode session: subsequent successful
// actions are captured until the session stops.
func (h *Handlers) StartRecording(c *gin.Context) {
	var req types.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.recorder.Start(req.Name); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recording": true, "name": req.Name})
}

// StopRecording closes the session and saves the captured workflow.
func (h *Handlers) StopRecording(c *gin.Context) {
	wf, err := h.recorder.Stop()
	if err != nil {
		if errors.Is(err, workflow.ErrNotRecording) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, wf)
}

// AbortRecording discards the open session.
func (h *Handlers) AbortRecording(c *gin.Context) {
	h.recorder.Abort()
	c.JSON(http.StatusOK, gin.H{"recording": false})
}

// ListSettings returns settings, optionally filtered by category.
func (h *Handlers) ListSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":   h.settings.List(c.Query("category")),
		"categories": h.settings.Categories(),
	})
}

// GetSetting returns one setting.
func (h *Handlers) GetSetting(c *gin.Context) {
	st, ok := h.settings.Get(c.Param("key"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// SetSetting assigns a setting value and persists it.
func (h *Handlers) SetSetting(c *gin.Context) {
	var req types.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.settings.Set(req.Key, req.Value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// ResetSetting restores a setting to its default.
func (h *Handlers) ResetSetting(c *gin.Context) {
	st, err := h.settings.Reset(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// ExportSettings dumps the key-to-value map.
func (h *Handlers) ExportSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settings.Export()})
}

// ImportSettings applies a key-to-value map.
func (h *Handlers) ImportSettings(c *gin.Context) {
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count, err := h.settings.Import(values)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": count})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": count})
}
