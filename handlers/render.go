package handlers

import (
	"errors"
	"net/http"

	"stocks-trader/database"
	"stocks-trader/middleware"
	"stocks-trader/quote"

	"github.com/gin-gonic/gin"
)

// render executes a page template with the layout data every page needs.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	_, loggedIn := middleware.UserID(c)
	data["LoggedIn"] = loggedIn

	if sess, ok := middleware.CurrentSession(c); ok && len(sess.Flashes) > 0 {
		data["Flashes"] = sess.PopFlashes()
		if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
			h.logger.Warn("failed to clear flashes", "error", err)
		}
	}
	c.HTML(code, name, data)
}

// flash queues a message for the next rendered page.
func (h *Handler) flash(c *gin.Context, msg string) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return
	}
	sess.AddFlash(msg)
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		h.logger.Warn("failed to save flash", "error", err)
	}
}

func (h *Handler) apology(c *gin.Context, code int, message string) {
	h.render(c, code, "apology.html", gin.H{
		"Title":   "Apology",
		"Code":    code,
		"Message": message,
	})
}

// fail renders the apology matching err. Unexpected errors are logged and
// reported as 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrInsufficientFunds):
		h.apology(c, http.StatusForbidden, "insufficient funds")
	case errors.Is(err, database.ErrInsufficientShares):
		h.apology(c, http.StatusForbidden, "insufficient number of shares")
	case errors.Is(err, database.ErrUsernameTaken):
		h.apology(c, http.StatusForbidden, "username already taken")
	case errors.Is(err, quote.ErrUnavailable), errors.Is(err, quote.ErrNotFound):
		h.logger.Warn("quote lookup failed", "path", c.Request.URL.Path, "error", err)
		h.apology(c, http.StatusServiceUnavailable, "quote service unavailable")
	default:
		h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		h.apology(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (h *Handler) onPanic(c *gin.Context, recovered any) {
	h.logger.Error("panic serving request", "path", c.Request.URL.Path, "panic", recovered)
	h.apology(c, http.StatusInternalServerError, "Internal Server Error")
	c.Abort()
}
