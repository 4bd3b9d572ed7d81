package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the shell frontend to call the API from its own origin.
// With an empty origin list every origin is allowed, which matches a
// shell served from an unknown dev port.
func CORS(shellOrigin string) gin.HandlerFunc {
	origins := []string{"*"}
	credentials := false
	if shellOrigin != "" {
		origins = []string{shellOrigin}
		credentials = true
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept", "Origin", "Authorization", "X-Requested-With"},
		AllowCredentials: credentials,
		MaxAge:           12 * time.Hour,
	})
}
