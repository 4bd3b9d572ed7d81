package nav

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// domainPattern matches bare-domain input: token(.token)+ with an
// optional path/query suffix and no whitespace.
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+([/?#]\S*)?$`)

// Resolver classifies free-text address-bar input. Pure: every call with
// the same input produces the same output.
type Resolver struct {
	// searchEngine is a URL template; %s receives the percent-encoded query.
	searchEngine string
}

// NewResolver creates a resolver using the given search-engine template.
func NewResolver(searchEngine string) *Resolver {
	return &Resolver{searchEngine: searchEngine}
}

// Resolve applies the classification rules in order, first match wins:
//
//  1. Input that parses as an absolute URL (scheme plus host) is used
//     verbatim.
//  2. Input shaped like a bare domain gets an https:// prefix.
//  3. Everything else becomes a search-engine URL with the text
//     percent-encoded.
//
// The ordering is the contract: input that matches rule 2 never falls
// through to rule 3, however phrase-like it reads.
func (r *Resolver) Resolve(input string) string {
	text := strings.TrimSpace(input)

	if u, err := url.Parse(text); err == nil && u.Scheme != "" && u.Host != "" {
		return text
	}

	if domainPattern.MatchString(text) {
		return "https://" + text
	}

	return fmt.Sprintf(r.searchEngine, url.QueryEscape(text))
}
