package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartshield/cartshield/internal/api/middleware"
	"github.com/cartshield/cartshield/internal/i18n"
)

// PreventFraudHandler renders the landing content blocked visitors are
// redirected to.
func PreventFraudHandler(c *gin.Context) {
	rc := middleware.BuildRequestContext(c)

	c.JSON(http.StatusForbidden, gin.H{
		"blocked": true,
		"message": i18n.New(rc.LanguageCode).T(i18n.KeyPreventFraudContent),
	})
}
