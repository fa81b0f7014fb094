package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/pkg/response"
)

const (
	// ContextUserID is the key for the staff user id in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for the staff email in gin context.
	ContextUserEmail = "user_email"
)

// RequireSession gates staff-only routes on a valid platform session. A
// missing or expired token gets a 401 carrying the login entry point; the SPA
// performs the redirect, which stays idempotent because nothing here holds
// state. Valid sessions put the claims in the request context for handlers.
func RequireSession(verifier *TokenVerifier, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			deny(c, loginPath)
			return
		}
		claims, err := verifier.Verify(parts[1])
		if err != nil {
			deny(c, loginPath)
			return
		}
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

func deny(c *gin.Context, loginPath string) {
	lang := i18n.FromContext(c)
	response.Unauthorized(c, i18n.T(lang, i18n.MsgLoginRequired), gin.H{"login_url": loginPath})
	c.Abort()
}
