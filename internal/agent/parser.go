package agent

import (
	"regexp"
	"strings"

	"github.com/glidebrowser/glide/internal/shared/types"
)

// rule pairs a pattern with an Action constructor. Rules run
// independently against the lowercased input; every match contributes
// an action, in table order.
type rule struct {
	kind    types.ActionKind
	pattern *regexp.Regexp
	build   func(m []string) types.Action
}

var rules = []rule{
	{
		kind:    types.ActionClick,
		pattern: regexp.MustCompile(`\b(?:click|press|tap)(?:\s+on)?\s+(?:the\s+)?(.+?)(?:\s+and\s|[,.!]|$)`),
		build: func(m []string) types.Action {
			return types.Action{Kind: types.ActionClick, Target: strings.TrimSpace(m[1])}
		},
	},
	{
		kind:    types.ActionType,
		pattern: regexp.MustCompile(`\b(?:type|enter|fill in|fill)\s+"?([^"]+?)"?\s+(?:in|into|on)\s+(?:the\s+)?(.+?)(?:\s+and\s|[,.!]|$)`),
		build: func(m []string) types.Action {
			return types.Action{
				Kind:   types.ActionType,
				Value:  strings.TrimSpace(m[1]),
				Target: strings.TrimSpace(m[2]),
			}
		},
	},
	{
		kind:    types.ActionScroll,
		pattern: regexp.MustCompile(`\bscroll\s+(?:to\s+(?:the\s+)?)?(up|down|top|bottom)\b`),
		build: func(m []string) types.Action {
			return types.Action{Kind: types.ActionScroll, Direction: types.ScrollDirection(m[1])}
		},
	},
	{
		kind:    types.ActionNavigate,
		pattern: regexp.MustCompile(`\b(?:go to|navigate to|open|visit)\s+([^\s,]+)`),
		build: func(m []string) types.Action {
			return types.Action{Kind: types.ActionNavigate, URL: strings.TrimSpace(m[1])}
		},
	},
	{
		kind:    types.ActionSelect,
		pattern: regexp.MustCompile(`\b(?:select|choose|pick)\s+"?([^"]+?)"?\s+(?:from|in)\s+(?:the\s+)?(.+?)(?:\s+and\s|[,.!]|$)`),
		build: func(m []string) types.Action {
			return types.Action{
				Kind:   types.ActionSelect,
				Value:  strings.TrimSpace(m[1]),
				Target: strings.TrimSpace(m[2]),
			}
		},
	},
}

// Parse extracts zero or more actions from a natural-language
// instruction. Stateless and pure.
func Parse(text string) []types.Action {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return nil
	}

	var actions []types.Action
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		actions = append(actions, r.build(m))
	}
	return actions
}
