package handlers

import (
	"errors"
	"net/http"

	"stocks-trader/database"
	"stocks-trader/middleware"
	"stocks-trader/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var hashCost = bcrypt.DefaultCost

func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *Handler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	switch {
	case username == "":
		h.apology(c, http.StatusForbidden, "must provide username")
		return
	case password == "":
		h.apology(c, http.StatusForbidden, "must provide password")
		return
	case password != c.PostForm("confirmation"):
		h.apology(c, http.StatusForbidden, "passwords must match")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.store.CreateUser(c.Request.Context(), username, string(hash))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) LoginForm(c *gin.Context) {
	h.forget(c)
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In"})
}

func (h *Handler) Login(c *gin.Context) {
	h.forget(c)

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" {
		h.apology(c, http.StatusForbidden, "must provide username")
		return
	}
	if password == "" {
		h.apology(c, http.StatusForbidden, "must provide password")
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.UserByUsername(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		h.apology(c, http.StatusForbidden, "invalid username and/or password")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)); err != nil {
		h.apology(c, http.StatusForbidden, "invalid username and/or password")
		return
	}

	sess, token, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	middleware.SetSession(c, sess)
	h.setCookie(c, token, int(h.sessions.TTL().Seconds()))

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	h.forget(c)
	c.Redirect(http.StatusFound, "/")
}

// forget ends the current session, if any, and expires the cookie.
func (h *Handler) forget(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.sessions.Destroy(c.Request.Context(), sess.ID); err != nil {
			h.logger.Warn("failed to destroy session", "error", err)
		}
	}
	middleware.SetSession(c, nil)
	if _, err := c.Cookie(session.CookieName); err == nil {
		h.setCookie(c, "", -1)
	}
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}
