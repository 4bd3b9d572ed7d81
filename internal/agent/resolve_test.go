package agent

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glidebrowser/glide/internal/frame"
)

const resolvePage = `
<html>
<head><title>Checkout</title></head>
<body>
	<div id="submit">not a control, but targeted by id</div>
	<form id="checkout">
		<label for="email">Email address</label>
		<input id="email" type="text" placeholder="you@example.com">
		<label>Coupon code <input name="coupon" type="text"></label>
		<select id="country">
			<option value="de">Germany</option>
			<option value="fr">France</option>
		</select>
		<button type="submit" class="primary">Place order!</button>
	</form>
	<a href="/help">Need help?</a>
</body>
</html>`

func resolveFrame(t *testing.T, sameOrigin bool) *frame.Frame {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resolvePage))
	require.NoError(t, err)
	return frame.New("https://shop.example/checkout", doc, sameOrigin)
}

func TestResolveByExactID(t *testing.T) {
	fr := resolveFrame(t, true)

	// id wins over everything, even on a non-interactive element
	el, err := ResolveElement(fr, "submit")
	require.NoError(t, err)
	assert.Equal(t, "submit", el.ID())
	assert.Equal(t, frame.RoleClickable, el.Role())
}

func TestResolveBySelector(t *testing.T) {
	fr := resolveFrame(t, true)

	el, err := ResolveElement(fr, "form#checkout button.primary")
	require.NoError(t, err)
	assert.Equal(t, frame.RoleButton, el.Role())
	assert.Equal(t, "Place order!", el.Text())
}

func TestResolveByInteractiveText(t *testing.T) {
	fr := resolveFrame(t, true)

	el, err := ResolveElement(fr, "place order")
	require.NoError(t, err)
	assert.Equal(t, frame.RoleButton, el.Role())

	el, err = ResolveElement(fr, "need help")
	require.NoError(t, err)
	assert.Equal(t, frame.RoleLink, el.Role())

	// placeholder text participates in containment
	el, err = ResolveElement(fr, "you@example.com")
	require.NoError(t, err)
	assert.Equal(t, "email", el.ID())
}

func TestResolveByLabel(t *testing.T) {
	fr := resolveFrame(t, true)

	// for= reference
	el, err := ResolveElement(fr, "email address")
	require.NoError(t, err)
	assert.Equal(t, "email", el.ID())

	// nested control
	el, err = ResolveElement(fr, "coupon code")
	require.NoError(t, err)
	assert.Equal(t, frame.RoleInput, el.Role())
}

func TestResolveMalformedSelectorFallsThrough(t *testing.T) {
	fr := resolveFrame(t, true)

	// not a valid selector, but matches button text containment
	el, err := ResolveElement(fr, "place order!")
	require.NoError(t, err)
	assert.Equal(t, frame.RoleButton, el.Role())
}

func TestResolveNoMatch(t *testing.T) {
	fr := resolveFrame(t, true)

	_, err := ResolveElement(fr, "launch the missiles")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = ResolveElement(fr, "")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveCrossOriginDenied(t *testing.T) {
	fr := resolveFrame(t, false)

	_, err := ResolveElement(fr, "place order")
	assert.ErrorIs(t, err, frame.ErrAccessDenied)
}
