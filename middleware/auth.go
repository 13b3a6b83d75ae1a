package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"stocks-trader/session"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = "user_id"
	sessionKey = "session"
)

// Sessions loads the session named by the request cookie, if any, into the
// gin context. It never rejects a request.
func Sessions(store *session.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err == nil && token != "" {
			sess, err := store.Load(c.Request.Context(), token)
			switch {
			case err == nil:
				SetSession(c, sess)
			case !errors.Is(err, session.ErrNoSession):
				logger.Warn("session lookup failed", "error", err)
			}
		}
		c.Next()
	}
}

// LoginRequired redirects to /login unless the request carries a session.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSession attaches sess to the request; a nil sess forgets the current one.
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionKey, sess)
	if sess == nil {
		c.Set(userIDKey, uint(0))
		return
	}
	c.Set(userIDKey, sess.UserID)
}

func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// UserID returns the authenticated user of the request.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
