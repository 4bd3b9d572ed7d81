package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glidebrowser/glide/internal/shared/types"
)

// ListTabs returns all tabs with navigation state.
func (h *Handlers) ListTabs(c *gin.Context) {
	c.JSON(http.StatusOK, h.tabSnapshot())
}

// CreateTab opens a new tab, optionally navigating it immediately.
func (h *Handlers) CreateTab(c *gin.Context) {
	var req types.CreateTabRequest
	// the body is optional: an empty POST opens a home tab
	_ = c.ShouldBindJSON(&req)

	id := h.registry.CreateTab(req.URL)
	if h.metrics != nil {
		h.metrics.TabsTotal.Inc()
		h.metrics.TabsActive.Set(float64(len(h.registry.Tabs())))
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "tabs": h.registry.Tabs()})
}

// CloseTab removes a tab. The registry guarantees at least one tab
// remains open afterwards.
func (h *Handlers) CloseTab(c *gin.Context) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	if !h.registry.CloseTab(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}
	if h.metrics != nil {
		h.metrics.TabsActive.Set(float64(len(h.registry.Tabs())))
	}
	c.JSON(http.StatusOK, h.tabSnapshot())
}

// ActivateTab switches the active tab.
func (h *Handlers) ActivateTab(c *gin.Context) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	if !h.registry.SwitchTo(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}
	c.JSON(http.StatusOK, h.tabSnapshot())
}

// Navigate resolves free-text input and navigates a tab.
func (h *Handlers) Navigate(c *gin.Context) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	var req types.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, ok := h.registry.Navigate(id, req.Input)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}
	if h.metrics != nil {
		h.metrics.RecordNavigation("navigate")
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GoBack traverses one history entry backward. A no-op at the stack's
// start: not an error, nothing changes.
func (h *Handlers) GoBack(c *gin.Context) {
	h.traverse(c, "back", h.registry.GoBack)
}

// GoForward traverses one history entry forward.
func (h *Handlers) GoForward(c *gin.Context) {
	h.traverse(c, "forward", h.registry.GoForward)
}

func (h *Handlers) traverse(c *gin.Context, kind string, move func(int64) (string, bool)) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	url, moved := move(id)
	if moved && h.metrics != nil {
		h.metrics.RecordNavigation(kind)
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "url": url})
}

// GoHome returns a tab to the home state. History survives, so back
// still works afterwards.
func (h *Handlers) GoHome(c *gin.Context) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	if !h.registry.GoHome(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}
	if h.metrics != nil {
		h.metrics.RecordNavigation("home")
	}
	c.JSON(http.StatusOK, h.tabSnapshot())
}

// Reload re-runs the load of a tab's current URL.
func (h *Handlers) Reload(c *gin.Context) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	if !h.registry.Reload(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tab has no URL to reload"})
		return
	}
	if h.metrics != nil {
		h.metrics.RecordNavigation("reload")
	}
	c.JSON(http.StatusOK, gin.H{"reloading": true})
}

// Frame serves a tab's processed document for rendering, with scroll
// position and origin capability. Rendering is never origin-gated.
func (h *Handlers) Frame(c *gin.Context) {
	id, ok := tabID(c)
	if !ok {
		return
	}
	fr, ok := h.host.Frame(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no page loaded in this tab"})
		return
	}
	html, err := fr.HTML()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render frame"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":         fr.URL(),
		"html":        html,
		"scroll":      fr.ScrollPosition(),
		"same_origin": fr.SameOrigin(),
	})
}
