// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", ParseAcceptLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// ParseAcceptLanguage picks the first supported language of a header like
// "de-DE,de;q=0.9,en;q=0.8".
func ParseAcceptLanguage(header, defaultLang string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if tag == "" {
			continue
		}
		// Convert common language codes
		base := strings.ToLower(tag)
		if i := strings.IndexAny(base, "-_"); i >= 0 {
			base = base[:i]
		}
		if i18n.Supported(base) {
			return base
		}
	}
	return defaultLang
}
