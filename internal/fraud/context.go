package fraud

import "strings"

// RequestContext is the explicit per-request snapshot the engine evaluates
// against. The hosting layer fills it from the inbound request and the
// authenticated account; the engine never reads ambient state.
type RequestContext struct {
	Method    string
	RouteName string
	AdminArea bool
	ClientIP  string
	UserAgent string
	Ajax      bool

	// Form holds the bound POST fields; FormValid mirrors the host's model
	// binding outcome so malformed submissions are never penalized.
	Form      map[string]string
	FormValid bool

	CustomerID       uint
	CustomerEmail    string
	CustomerUsername string
	LanguageCode     string

	IsAdmin         bool
	IsSystemAccount bool
	IsSearchEngine  bool
	IsMobile        bool

	// PluginActive reflects the host's plugin/widget activation state.
	PluginActive bool
}

// FormEmail returns the submitted Email field, if present.
func (rc *RequestContext) FormEmail() (string, bool) {
	email, ok := rc.Form["Email"]
	return email, ok
}

var mobileUASnippets = []string{
	"android", "iphone", "ipad", "ipod", "windows phone", "blackberry", "opera mini", "mobile",
}

var crawlerUASnippets = []string{
	"googlebot", "bingbot", "yandexbot", "duckduckbot", "baiduspider", "slurp", "applebot", "crawler", "spider",
}

// IsMobileUserAgent reports whether the user agent looks like a mobile device.
func IsMobileUserAgent(ua string) bool {
	return containsAny(ua, mobileUASnippets)
}

// IsSearchEngineUserAgent reports whether the user agent looks like a crawler.
func IsSearchEngineUserAgent(ua string) bool {
	return containsAny(ua, crawlerUASnippets)
}

func containsAny(s string, snippets []string) bool {
	s = strings.ToLower(s)
	for _, snippet := range snippets {
		if strings.Contains(s, snippet) {
			return true
		}
	}
	return false
}
