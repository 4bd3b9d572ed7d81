package frame

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Role classifies an element into the closed set of interactive shapes
// the shell knows how to act on. Each role defines which attributes are
// queryable; arbitrary duck-typed attribute access does not exist here.
type Role string

const (
	RoleLink      Role = "link"
	RoleButton    Role = "button"
	RoleInput     Role = "input"
	RoleSelect    Role = "select"
	RoleTextarea  Role = "textarea"
	RoleClickable Role = "clickable"
)

// clickableAttr marks elements that carried an inline click handler
// before sanitization stripped it. Set by the fetch pipeline.
const clickableAttr = "data-glide-clickable"

// Element is a handle on one interactive element inside a frame's
// document.
type Element struct {
	sel  *goquery.Selection
	role Role
}

// AsElement wraps a selection, classifying its role. Returns false for
// non-interactive elements.
func AsElement(sel *goquery.Selection) (*Element, bool) {
	if sel == nil || sel.Length() == 0 {
		return nil, false
	}
	role, ok := roleOf(sel)
	if !ok {
		return nil, false
	}
	return &Element{sel: sel.First(), role: role}, true
}

// WrapAny wraps a selection without requiring an interactive role;
// non-interactive elements get the clickable role. Used for direct
// selector and id hits, which the shell trusts as deliberate targeting.
func WrapAny(sel *goquery.Selection) (*Element, bool) {
	if sel == nil || sel.Length() == 0 {
		return nil, false
	}
	if e, ok := AsElement(sel); ok {
		return e, true
	}
	return &Element{sel: sel.First(), role: RoleClickable}, true
}

func roleOf(sel *goquery.Selection) (Role, bool) {
	node := sel.First()
	tag := goquery.NodeName(node)
	switch tag {
	case "a":
		return RoleLink, true
	case "button":
		return RoleButton, true
	case "input":
		t, _ := node.Attr("type")
		switch strings.ToLower(t) {
		case "button", "submit", "reset":
			return RoleButton, true
		}
		return RoleInput, true
	case "select":
		return RoleSelect, true
	case "textarea":
		return RoleTextarea, true
	}
	if _, ok := node.Attr(clickableAttr); ok {
		return RoleClickable, true
	}
	return "", false
}

// Role returns the element's role.
func (e *Element) Role() Role { return e.role }

// ID returns the element's id attribute.
func (e *Element) ID() string {
	id, _ := e.sel.Attr("id")
	return id
}

// Text returns the element's visible text, trimmed.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

// Value returns the element's current value where the role has one.
func (e *Element) Value() string {
	switch e.role {
	case RoleInput, RoleButton:
		v, _ := e.sel.Attr("value")
		return v
	case RoleTextarea:
		return strings.TrimSpace(e.sel.Text())
	case RoleSelect:
		if opt := e.sel.Find("option[selected]").First(); opt.Length() > 0 {
			if v, ok := opt.Attr("value"); ok {
				return v
			}
			return strings.TrimSpace(opt.Text())
		}
	}
	return ""
}

// Placeholder returns the placeholder attribute for text-entry roles.
func (e *Element) Placeholder() string {
	switch e.role {
	case RoleInput, RoleTextarea:
		p, _ := e.sel.Attr("placeholder")
		return p
	}
	return ""
}

// Href returns a link's destination.
func (e *Element) Href() (string, bool) {
	if e.role != RoleLink {
		return "", false
	}
	return e.sel.Attr("href")
}

// SetValue assigns the element's value. The value attribute mutation is
// the server-side stand-in for typing plus the synthesized input/change
// notifications dependent UI listens for.
func (e *Element) SetValue(v string) bool {
	switch e.role {
	case RoleInput:
		e.sel.SetAttr("value", v)
		return true
	case RoleTextarea:
		e.sel.SetText(v)
		return true
	}
	return false
}

// SelectOption picks the first option whose label or value contains the
// given text case-insensitively. Returns false when nothing matched; the
// caller decides what a non-match means (see the executor's documented
// quirk).
func (e *Element) SelectOption(text string) bool {
	if e.role != RoleSelect {
		return false
	}
	want := strings.ToLower(text)
	matched := false
	e.sel.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(opt.Text()))
		value, _ := opt.Attr("value")
		if strings.Contains(label, want) || strings.Contains(strings.ToLower(value), want) {
			e.sel.Find("option").RemoveAttr("selected")
			opt.SetAttr("selected", "selected")
			matched = true
			return false
		}
		return true
	})
	return matched
}

// Matches reports whether the element's text, value, or placeholder
// contains the target case-insensitively.
func (e *Element) Matches(target string) bool {
	want := strings.ToLower(target)
	if strings.Contains(strings.ToLower(e.Text()), want) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Value()), want) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Placeholder()), want) {
		return true
	}
	// buttons and submits often label through the value attribute only
	if v, ok := e.sel.Attr("aria-label"); ok && strings.Contains(strings.ToLower(v), want) {
		return true
	}
	return false
}
