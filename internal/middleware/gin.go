package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinBridge adapts a net/http middleware to Gin. Auth decisions stay in
// transport-agnostic net/http middleware; Gin only hosts the router.
func GinBridge(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		handler := mw(next)
		handler.ServeHTTP(c.Writer, c.Request)

		// If the middleware already handled the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
