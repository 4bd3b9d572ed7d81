package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/glidebrowser/glide/internal/config"
	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/shared/types"
)

var (
	// ErrMissingCredential means the provider needs an API key it was
	// not given.
	ErrMissingCredential = errors.New("provider requires an API key")
	// ErrUnknownProvider rejects a provider name outside the table.
	ErrUnknownProvider = errors.New("unknown LLM provider")
	// ErrEmptyCompletion means the model answered with no content.
	ErrEmptyCompletion = errors.New("model returned an empty completion")
)

// Provider produces a completion for a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds the provider selected by name, falling back to the
// configured default when name is empty.
func New(name string, cfg config.AgentConfig, log *logging.Logger) (Provider, error) {
	if name == "" {
		name = cfg.DefaultProvider
	}
	client := newHTTPClient(cfg)
	switch name {
	case "local", "ollama":
		return &localProvider{addr: cfg.LocalAddress, model: cfg.Model, client: client, log: log.For("llm.local")}, nil
	case "hosted", "openai":
		if cfg.APIKey == "" {
			return nil, ErrMissingCredential
		}
		return &hostedProvider{addr: cfg.HostedAddress, model: cfg.Model, key: cfg.APIKey, client: client, log: log.For("llm.hosted")}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

func newHTTPClient(cfg config.AgentConfig) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	return rc.StandardClient()
}

// actionPrompt instructs the model to answer with machine-readable
// actions only.
const actionPrompt = `You control a web page on the user's behalf.
Translate the instruction into a JSON array of actions and output nothing else.
Each action is an object with "kind" (click|type|scroll|navigate|select) and,
as applicable, "target", "value", "direction" (up|down|top|bottom), "url".

Instruction: %s`

// ParseActions asks the provider to translate an instruction and
// decodes the resulting JSON. Surrounding prose and code fences are
// tolerated; anything without a JSON array inside is an error.
func ParseActions(ctx context.Context, p Provider, instruction string) ([]types.Action, error) {
	out, err := p.Complete(ctx, fmt.Sprintf(actionPrompt, instruction))
	if err != nil {
		return nil, err
	}

	raw := extractArray(out)
	if raw == "" {
		return nil, fmt.Errorf("completion carries no action array: %q", truncate(out, 120))
	}

	var actions []types.Action
	if err := sonic.UnmarshalString(raw, &actions); err != nil {
		return nil, fmt.Errorf("failed to decode actions: %w", err)
	}
	return actions, nil
}

// extractArray pulls the outermost JSON array out of a completion.
func extractArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
