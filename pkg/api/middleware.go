package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxiservice/pkg/auth"
	"taxiservice/pkg/logger"
)

const (
	ctxRequestID = "request_id"
	ctxUser      = "user"
	ctxSession   = "session"

	headerRequestID = "X-Request-ID"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// requestLogger picks the log level from the response status.
// Fast successful GETs go to debug so the info stream stays readable.
func requestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/favicon.ico" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []logger.Field{
			logger.String("request_id", c.GetString(ctxRequestID)),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("latency", latency),
			logger.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("server_error", fields...)
		case status == http.StatusNotFound:
			log.Info("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warning("client_error", fields...)
		case c.Request.Method != http.MethodGet || latency > 500*time.Millisecond:
			log.Info("request", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}

// loadSession resolves the session cookie into the logged-in driver.
// A stale or tampered cookie is dropped and the request continues anonymously.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := h.sessions.Parse(token)
		if err != nil {
			h.clearSession(c)
			c.Next()
			return
		}

		driver, err := h.svc.Auth().CurrentDriver(c.Request.Context(), sess.DriverID)
		if err != nil {
			h.clearSession(c)
			c.Next()
			return
		}

		c.Set(ctxSession, sess)
		c.Set(ctxUser, driver)
		c.Next()
	}
}

func loginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.CanAccessAdmin() {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := "/accounts/login/?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// safeNext only allows local absolute paths as a post-login target.
// Browsers strip control characters from URLs, so "/\t/host" would turn into "//host".
func safeNext(next string) string {
	if strings.IndexFunc(next, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return "/"
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

func currentSession(c *gin.Context) auth.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(auth.Session); ok {
			return s
		}
	}
	return auth.Session{}
}

func (h *Handler) writeSession(c *gin.Context, s auth.Session) error {
	token, err := h.sessions.Issue(s)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookies, true)
	return nil
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secureCookies, true)
}
