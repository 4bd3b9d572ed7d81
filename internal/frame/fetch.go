package frame

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

const userAgent = "Mozilla/5.0 (GlideShell/1.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher retrieves remote pages and turns them into frames.
type Fetcher struct {
	client      *resty.Client
	policy      *bluemonday.Policy
	shellOrigin string
}

// NewFetcher creates a fetcher. shellOrigin is the origin the shell is
// served from; empty means the shell claims every fetched document as
// its own unless the page's headers forbid embedding.
func NewFetcher(timeout time.Duration, shellOrigin string) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(timeout).
		SetTransport(retryClient.HTTPClient.Transport).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Fetcher{
		client:      client,
		policy:      framePolicy(),
		shellOrigin: shellOrigin,
	}
}

// Fetch retrieves, decodes, sanitizes, and parses one page. Every error
// is a load failure: the caller transitions the load state machine to
// error with the message.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Frame, error) {
	base, err := url.Parse(rawURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", status, resp.Status())
	}

	body := decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("empty response body from %s", rawURL)
	}

	doc, title, err := f.process(body, base)
	if err != nil {
		return nil, err
	}

	fr := New(rawURL, doc, f.embeddable(base, resp))
	if fr.title == "" {
		fr.title = title
	}
	return fr, nil
}

// process runs the two-pass pipeline: annotate and absolutize on the
// raw parse, sanitize the body, then reparse into the final document.
func (f *Fetcher) process(body string, base *url.URL) (*goquery.Document, string, error) {
	raw, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(raw.Find("title").First().Text())
	if title == "" {
		title = base.Host
	}

	// Mark inline click handlers before the sanitizer strips them, so
	// element roles survive sanitization.
	raw.Find("[onclick]").SetAttr(clickableAttr, "true")

	raw.Find("script, noscript, iframe, object, embed").Remove()

	absolutize(raw, base, "a", "href")
	absolutize(raw, base, "img", "src")
	absolutize(raw, base, "link", "href")
	absolutize(raw, base, "form", "action")

	inner, err := raw.Find("body").Html()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render body: %w", err)
	}
	clean := f.policy.Sanitize(inner)

	rebuilt := fmt.Sprintf(
		"<html><head><title>%s</title><base href=%q></head><body>%s</body></html>",
		html.EscapeString(title), base.String(), clean,
	)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rebuilt))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse sanitized HTML: %w", err)
	}
	return doc, title, nil
}

// embeddable decides the same-origin capability for a fetched page.
// Pages that forbid embedding are cross-origin by definition; otherwise
// the configured shell origin decides.
func (f *Fetcher) embeddable(u *url.URL, resp *resty.Response) bool {
	xfo := strings.ToUpper(strings.TrimSpace(resp.Header().Get("X-Frame-Options")))
	switch {
	case strings.Contains(xfo, "DENY"):
		return false
	case strings.Contains(xfo, "SAMEORIGIN") && !f.sameShellOrigin(u):
		return false
	}

	if ancestors := cspFrameAncestors(resp.Header().Get("Content-Security-Policy")); ancestors != "" {
		if strings.Contains(ancestors, "'none'") {
			return false
		}
		if !strings.Contains(ancestors, "*") && !f.originListed(ancestors) {
			return false
		}
	}

	if f.shellOrigin == "" {
		return true
	}
	return f.sameShellOrigin(u)
}

func (f *Fetcher) sameShellOrigin(u *url.URL) bool {
	if f.shellOrigin == "" {
		return true
	}
	shell, err := url.Parse(f.shellOrigin)
	if err != nil {
		return false
	}
	return shell.Scheme == u.Scheme && shell.Host == u.Host
}

func (f *Fetcher) originListed(ancestors string) bool {
	if f.shellOrigin == "" {
		return false
	}
	shell, err := url.Parse(f.shellOrigin)
	if err != nil {
		return false
	}
	return strings.Contains(ancestors, shell.Host)
}

// cspFrameAncestors extracts the frame-ancestors directive value.
func cspFrameAncestors(csp string) string {
	for _, directive := range strings.Split(csp, ";") {
		directive = strings.TrimSpace(directive)
		if strings.HasPrefix(directive, "frame-ancestors") {
			return strings.TrimSpace(strings.TrimPrefix(directive, "frame-ancestors"))
		}
	}
	return ""
}

// decodeBody converts non-UTF-8 pages using header charset or detection.
func decodeBody(body []byte, contentType string) string {
	if name := charsetFrom(contentType); name != "" {
		if decoded, ok := decodeAs(body, name); ok {
			return decoded
		}
	}
	if utf8.Valid(body) {
		return string(body)
	}
	if best, err := chardet.NewTextDetector().DetectBest(body); err == nil {
		if decoded, ok := decodeAs(body, best.Charset); ok {
			return decoded
		}
	}
	return string(body)
}

func charsetFrom(contentType string) string {
	for _, part := range strings.Split(contentType, ";") {
		part = strings.TrimSpace(strings.ToLower(part))
		if cs, ok := strings.CutPrefix(part, "charset="); ok {
			return strings.Trim(cs, `"`)
		}
	}
	return ""
}

func decodeAs(body []byte, charset string) (string, bool) {
	charset = strings.ToLower(charset)
	if charset == "utf-8" || charset == "utf8" {
		return string(body), true
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", false
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// absolutize rewrites one attribute against the base URL, dropping
// unsafe schemes.
func absolutize(doc *goquery.Document, base *url.URL, tag, attr string) {
	doc.Find(tag + "[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
		val, _ := s.Attr(attr)
		if val == "" || strings.HasPrefix(val, "#") {
			return
		}
		lower := strings.ToLower(val)
		if strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "data:") ||
			strings.HasPrefix(lower, "vbscript:") {
			s.RemoveAttr(attr)
			return
		}
		parsed, err := url.Parse(val)
		if err != nil {
			return
		}
		s.SetAttr(attr, base.ResolveReference(parsed).String())
	})
}

// framePolicy builds the sanitizer allowlist: UGC defaults plus the
// form machinery and role attributes the action pipeline depends on.
func framePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("form", "input", "button", "select", "option", "textarea", "label",
		"nav", "header", "footer", "main", "section", "article", "aside", "span", "div")
	p.AllowAttrs("id", "class", "name", "title").Globally()
	p.AllowAttrs(clickableAttr).Globally()
	p.AllowAttrs("type", "value", "placeholder", "checked", "disabled").OnElements("input", "button")
	p.AllowAttrs("value", "selected").OnElements("option")
	p.AllowAttrs("placeholder", "rows", "cols").OnElements("textarea")
	p.AllowAttrs("for").OnElements("label")
	p.AllowAttrs("action", "method").OnElements("form")
	p.AllowAttrs("href").OnElements("a")
	return p
}
