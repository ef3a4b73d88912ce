package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/seoaudit/stats"
)

// TrackVisitors records every client IP in the usage statistics.
func TrackVisitors(s *stats.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.TrackVisitor(c.ClientIP())
		c.Next()
	}
}

// CORS allows the audit API to be called from any browser origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
