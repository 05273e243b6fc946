package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

const (
	SCOPE_REQ_ID    = "requestId"
	HeaderRequestID = "X-Request-ID"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestIdGenerator keeps an incoming X-Request-ID of at most 64 letters,
// digits, dots, dashes or underscores and creates one otherwise. The id is
// exposed on the context and the response.
func RequestIdGenerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get(HeaderRequestID)
		if !validRequestID.MatchString(reqID) {
			if reqID != "" {
				log.WithField("length", len(reqID)).Debug("Replacing malformed request id.")
			}
			reqID = xid.New().String()
		}
		c.Set(SCOPE_REQ_ID, reqID)
		c.Writer.Header().Set(HeaderRequestID, reqID)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(SCOPE_REQ_ID)
}

// Logger logs one line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logCtx := log.WithFields(log.Fields{
			"reqId":   GetRequestID(c),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})
		if len(c.Errors) > 0 {
			logCtx.WithField("errors", c.Errors.String()).Error("Request failed.")
			return
		}
		logCtx.Info("Request served.")
	}
}

func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(log.Fields{
			"reqId": GetRequestID(c),
			"panic": recovered,
		}).Error("Recovered from panic.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
