package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/i18n"
	"github.com/cartshield/cartshield/internal/metrics"
	"github.com/cartshield/cartshield/internal/models"
)

// Context keys shared between the fraud middleware and the storefront
// handlers.
const (
	RouteNameKey    = "fraudRouteName"
	FraudFlaggedKey = "fraudFlagged"
	IdentityKey     = "storefrontIdentity"
)

// PreventFraudPath is where blocked requests are redirected to.
const PreventFraudPath = "/prevent-fraud"

// StorefrontIdentity is the caller's account snapshot, placed in the context
// by the storefront's session layer.
type StorefrontIdentity struct {
	CustomerID      uint
	Email           string
	Username        string
	LanguageCode    string
	IsAdmin         bool
	IsSystemAccount bool
}

// RouteName tags a storefront route with its well-known name so the fraud
// policy can scope checks per route.
func RouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RouteNameKey, name)
		c.Next()
	}
}

// BuildRequestContext snapshots the request into the form the fraud engine
// evaluates.
func BuildRequestContext(c *gin.Context) *fraud.RequestContext {
	rc := &fraud.RequestContext{
		Method:       c.Request.Method,
		ClientIP:     c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Ajax:         strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest"),
		LanguageCode: "en",
		PluginActive: true,
	}

	if name, ok := c.Get(RouteNameKey); ok {
		rc.RouteName, _ = name.(string)
	}

	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(*StorefrontIdentity); ok {
			rc.CustomerID = identity.CustomerID
			rc.CustomerEmail = identity.Email
			rc.CustomerUsername = identity.Username
			rc.IsAdmin = identity.IsAdmin
			rc.IsSystemAccount = identity.IsSystemAccount
			if identity.LanguageCode != "" {
				rc.LanguageCode = identity.LanguageCode
			}
		}
	}

	rc.IsMobile = fraud.IsMobileUserAgent(rc.UserAgent)
	rc.IsSearchEngine = fraud.IsSearchEngineUserAgent(rc.UserAgent)

	if c.Request.Method == http.MethodPost {
		err := c.Request.ParseForm()
		rc.FormValid = err == nil
		if err == nil {
			rc.Form = make(map[string]string, len(c.Request.PostForm))
			for key, values := range c.Request.PostForm {
				if len(values) > 0 {
					rc.Form[key] = values[0]
				}
			}
		}
	}

	return rc
}

// DecisionSink records applied verdicts for auditing.
type DecisionSink interface {
	RecordRequestDecision(check, action string, rc *fraud.RequestContext)
}

// BlockNotifier is told about blocked requests.
type BlockNotifier interface {
	RequestBlocked(ip, routeName string)
}

// FraudCheck is the storefront interception filter running the IP and email
// reputation policies on every public request.
type FraudCheck struct {
	Engine        *fraud.Engine
	Settings      fraud.SettingsSource
	Decisions     DecisionSink
	Notifications BlockNotifier
}

// Handler returns the gin middleware enforcing the policy.
func (f *FraudCheck) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := BuildRequestContext(c)

		settings, err := f.Settings.Settings()
		if err != nil {
			// storefront stays up when config can't load
			GetRequestLogger(c).WithError(err).Error("failed to load fraud settings")
			c.Next()
			return
		}

		if f.Engine.CanValidateIPReputation(settings, rc) {
			metrics.IncRequestEvaluated()

			ok, err := f.Engine.ValidateRequest(c.Request.Context(), settings, rc)
			if err != nil {
				GetRequestLogger(c).WithError(err).Error("ip reputation evaluation failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}

			if !ok {
				f.blockRequest(c, settings, rc)
				if c.IsAborted() {
					return
				}
			}
		}

		if f.Engine.CanValidateEmail(settings, rc) {
			metrics.IncEmailEvaluated()

			ok, err := f.Engine.ValidateEmail(c.Request.Context(), settings, rc)
			if err != nil {
				GetRequestLogger(c).WithError(err).Error("email reputation evaluation failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}

			if !ok {
				f.blockEmail(c, settings, rc)
				if c.IsAborted() {
					return
				}
			}
		}

		c.Next()
	}
}

func (f *FraudCheck) blockRequest(c *gin.Context, settings *models.FraudSettings, rc *fraud.RequestContext) {
	metrics.IncRequestBlocked()
	f.applyBlock(c, settings, rc, "ip")
}

func (f *FraudCheck) blockEmail(c *gin.Context, settings *models.FraudSettings, rc *fraud.RequestContext) {
	metrics.IncEmailBlocked()
	f.applyBlock(c, settings, rc, "email")
}

// applyBlock applies the configured consequence to a failed check, the same
// way for IP and email verdicts: display mode marks the request flagged and
// lets it proceed, redirect mode sends the visitor to the prevent-fraud page.
// AJAX callers cannot follow a redirect and get a 400 with the localized
// message instead.
func (f *FraudCheck) applyBlock(c *gin.Context, settings *models.FraudSettings, rc *fraud.RequestContext, check string) {
	action := "redirect"
	if settings.BlockNotificationType == models.BlockNotificationDisplay {
		action = "flag"
	}

	if f.Decisions != nil {
		f.Decisions.RecordRequestDecision(check, action, rc)
	}
	if f.Notifications != nil {
		f.Notifications.RequestBlocked(rc.ClientIP, rc.RouteName)
	}

	GetRequestLogger(c).WithFields(logrus.Fields{
		"check":  check,
		"client": rc.ClientIP,
		"route":  rc.RouteName,
		"action": action,
	}).Warn("request failed reputation check")

	if action == "flag" {
		c.Set(FraudFlaggedKey, true)
		return
	}

	if rc.Ajax {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": i18n.New(rc.LanguageCode).T(i18n.KeyPreventFraudContent),
		})
		return
	}

	c.Redirect(http.StatusFound, PreventFraudPath)
	c.Abort()
}
