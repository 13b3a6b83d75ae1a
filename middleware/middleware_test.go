package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocks-trader/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSessions(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewStore(rdb, "test-secret", time.Hour)
}

func whoami(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, "user %d", id)
}

func TestSessionsLoadsUserFromCookie(t *testing.T) {
	store := newTestSessions(t)
	_, token, err := store.Create(context.Background(), 42)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Sessions(store, discardLogger()))
	r.GET("/", whoami)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "user 42", w.Body.String())

	for _, cookie := range []*http.Cookie{nil, {Name: session.CookieName, Value: "forged"}} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "anonymous", w.Body.String())
	}
}

func TestLoginRequired(t *testing.T) {
	store := newTestSessions(t)
	_, token, err := store.Create(context.Background(), 7)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Sessions(store, discardLogger()))
	r.GET("/private", LoginRequired(), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user 7", w.Body.String())
}

func TestSetSessionNilForgetsUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetSession(c, &session.Session{ID: "abc", UserID: 3})

	id, ok := UserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(3), id)
	sess, ok := CurrentSession(c)
	require.True(t, ok)
	assert.Equal(t, "abc", sess.ID)

	SetSession(c, nil)
	_, ok = UserID(c)
	assert.False(t, ok)
	_, ok = CurrentSession(c)
	assert.False(t, ok)
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterOnlyLimitsPost(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 1)
	r := gin.New()
	r.Use(rl.Limit(func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	}))
	r.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "form") })
	r.POST("/login", func(c *gin.Context) { c.String(http.StatusOK, "posted") })

	serve := func(method string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/login", nil))
		return w
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodPost).Code)
	w := serve(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "slow down", w.Body.String())
	assert.Equal(t, http.StatusOK, serve(http.MethodGet).Code)
}

func TestNoCache(t *testing.T) {
	r := gin.New()
	r.Use(NoCache())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "0", w.Header().Get("Expires"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"path":"/boom"`)
	assert.Contains(t, out, `"status":500`)
}
