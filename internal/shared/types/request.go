package types

// CreateTabRequest opens a new tab, optionally navigating immediately
type CreateTabRequest struct {
	URL string `json:"url,omitempty"`
}

// NavigateRequest resolves free-text input and navigates a tab
type NavigateRequest struct {
	Input string `json:"input" binding:"required"`
}

// CommandRequest carries a natural-language instruction for the agent
type CommandRequest struct {
	Text     string `json:"text" binding:"required"`
	Provider string `json:"provider,omitempty"`
	Record   bool   `json:"record,omitempty"`
}

// BatchRequest executes a pre-parsed action list
type BatchRequest struct {
	Actions []Action `json:"actions" binding:"required"`
}

// ScriptRequest evaluates a script against the active frame
type ScriptRequest struct {
	Script string `json:"script" binding:"required"`
}

// SettingRequest sets a single setting value
type SettingRequest struct {
	Key   string      `json:"key" binding:"required"`
	Value interface{} `json:"value"`
}

// RecordRequest starts a teach-mode recording session
type RecordRequest struct {
	Name string `json:"name" binding:"required"`
}

// WorkflowRequest creates or replaces a workflow
type WorkflowRequest struct {
	Name  string         `json:"name" binding:"required"`
	Steps []WorkflowStep `json:"steps"`
}

// WSMessage represents a WebSocket message in either direction
type WSMessage struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message,omitempty"`
	TabID   int64                  `json:"tab_id,omitempty"`
	State   string                 `json:"state,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
