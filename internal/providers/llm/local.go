package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/logging"
)

// localProvider talks to an Ollama-compatible generate endpoint.
type localProvider struct {
	addr   string
	model  string
	client *http.Client
	log    *logging.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (p *localProvider) Name() string { return "local" }

func (p *localProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := sonic.Marshal(generateRequest{Model: p.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(p.addr, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local model unreachable at %s: %w", p.addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local model returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out generateResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", ErrEmptyCompletion
	}

	p.log.Debug("completion received", zap.Int("bytes", len(out.Response)))
	return out.Response, nil
}
