package i18n

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsunagu-circle/backend/pkg/response"
)

// ContextLang is the gin context key the resolved language is stored under.
const ContextLang = "lang"

// Middleware resolves the visitor's language: cookie first, Accept-Language
// for first contact, default otherwise. The resolved value is placed in the
// request context; handlers must not read the cookie themselves.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang Lang
		if v, err := c.Cookie(CookieName); err == nil && v != "" {
			lang = Parse(v)
		} else {
			lang = FromAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		c.Set(ContextLang, lang)
		c.Next()
	}
}

// FromContext returns the resolved language for the request.
func FromContext(c *gin.Context) Lang {
	if v, ok := c.Get(ContextLang); ok {
		if lang, ok := v.(Lang); ok {
			return lang
		}
	}
	return Default
}

// Handler serves the language endpoints.
type Handler struct{}

// NewHandler creates a language handler.
func NewHandler() *Handler { return &Handler{} }

// Current handles GET /lang.
func (h *Handler) Current(c *gin.Context) {
	response.OK(c, gin.H{"lang": FromContext(c)})
}

// Toggle handles POST /lang/toggle. The single mutation point for the flag.
func (h *Handler) Toggle(c *gin.Context) {
	next := FromContext(c).Toggle()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, string(next), CookieMaxAge, "/", "", false, false)
	response.OK(c, gin.H{"lang": next})
}

// Options handles GET /form-options.
func (h *Handler) Options(c *gin.Context) {
	response.OK(c, FormOptionsFor(FromContext(c)))
}
