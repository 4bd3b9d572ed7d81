package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/glidebrowser/glide/internal/frame"
)

// ErrNoMatch is returned when no resolution step produced an element.
var ErrNoMatch = errors.New("no element matches the target")

// interactiveXPath enumerates the candidates for the text-containment
// step, in document order.
const interactiveXPath = `//a | //button | //input | //select | //textarea | //*[@data-glide-clickable]`

// ResolveElement maps a target description to an element in the frame's
// document. The four steps run in strict priority order and the first
// hit wins:
//
//  1. exact id match
//  2. the target interpreted as a CSS selector
//  3. text containment over interactive elements
//  4. label association (for= reference or nested control)
//
// A cross-origin frame fails immediately with frame.ErrAccessDenied.
func ResolveElement(fr *frame.Frame, target string) (*frame.Element, error) {
	doc, err := fr.Document()
	if err != nil {
		return nil, err
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrNoMatch
	}

	if el, ok := byExactID(doc, target); ok {
		return el, nil
	}
	if el, ok := bySelector(doc, target); ok {
		return el, nil
	}
	if el, ok := byInteractiveText(doc, target); ok {
		return el, nil
	}
	if el, ok := byLabel(doc, target); ok {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoMatch, target)
}

func byExactID(doc *goquery.Document, target string) (*frame.Element, bool) {
	var hit *goquery.Selection
	doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if id, _ := s.Attr("id"); id == target {
			hit = s
			return false
		}
		return true
	})
	if hit == nil {
		return nil, false
	}
	return frame.WrapAny(hit)
}

// bySelector tries the target verbatim as a selector. Targets are user
// text, so a malformed selector is an ordinary non-match, not an error;
// the recover absorbs cascadia's panic on garbage input.
func bySelector(doc *goquery.Document, target string) (el *frame.Element, ok bool) {
	defer func() {
		if recover() != nil {
			el, ok = nil, false
		}
	}()
	sel := doc.Find(target)
	if sel.Length() == 0 {
		return nil, false
	}
	return frame.WrapAny(sel)
}

func byInteractiveText(doc *goquery.Document, target string) (*frame.Element, bool) {
	if len(doc.Selection.Nodes) == 0 {
		return nil, false
	}
	nodes, err := htmlquery.QueryAll(doc.Selection.Nodes[0], interactiveXPath)
	if err != nil {
		return nil, false
	}
	for _, n := range nodes {
		el, ok := frame.AsElement(doc.FindNodes(n))
		if !ok {
			continue
		}
		if el.Matches(target) {
			return el, true
		}
	}
	return nil, false
}

// byLabel finds a <label> whose text contains the target and resolves
// the control it describes, by for= reference first, then by nesting.
func byLabel(doc *goquery.Document, target string) (*frame.Element, bool) {
	want := strings.ToLower(target)
	var el *frame.Element
	doc.Find("label").EachWithBreak(func(_ int, lab *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(lab.Text()), want) {
			return true
		}
		if forID, ok := lab.Attr("for"); ok && forID != "" {
			if e, ok := byExactID(doc, forID); ok {
				el = e
				return false
			}
		}
		if e, ok := frame.AsElement(lab.Find("input, select, textarea").First()); ok {
			el = e
			return false
		}
		return true
	})
	return el, el != nil
}
