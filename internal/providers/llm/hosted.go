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

// hostedProvider talks to an OpenAI-compatible chat completion
// endpoint.
type hostedProvider struct {
	addr   string
	model  string
	key    string
	client *http.Client
	log    *logging.Logger
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *hostedProvider) Name() string { return "hosted" }

func (p *hostedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := sonic.Marshal(chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(p.addr, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.key)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hosted model unreachable at %s: %w", p.addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("hosted model returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out chatResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	p.log.Debug("completion received", zap.Int("choices", len(out.Choices)))
	return out.Choices[0].Message.Content, nil
}
