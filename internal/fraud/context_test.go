package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMobileUserAgent(t *testing.T) {
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (Linux; Android 14; Pixel 8)"))
	assert.False(t, IsMobileUserAgent("Mozilla/5.0 (X11; Linux x86_64)"))
	assert.False(t, IsMobileUserAgent(""))
}

func TestIsSearchEngineUserAgent(t *testing.T) {
	assert.True(t, IsSearchEngineUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
	assert.True(t, IsSearchEngineUserAgent("Mozilla/5.0 (compatible; bingbot/2.0)"))
	assert.False(t, IsSearchEngineUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
}

func TestFormEmail(t *testing.T) {
	rc := &RequestContext{Form: map[string]string{"Email": "a@b.com"}}
	email, ok := rc.FormEmail()
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", email)

	rc.Form = nil
	_, ok = rc.FormEmail()
	assert.False(t, ok)
}

func TestRouteInGroups(t *testing.T) {
	assert.True(t, routeInGroups("customer", "Login"))
	assert.True(t, routeInGroups("catalog,checkout", "ShoppingCart"))
	assert.True(t, routeInGroups(" customer , checkout ", "CheckoutConfirm"))
	assert.False(t, routeInGroups("customer", "ShoppingCart"))
	assert.False(t, routeInGroups("unknown", "Login"))
	assert.False(t, routeInGroups("", "Login"))
}
