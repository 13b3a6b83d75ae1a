package handlers

import (
	"html/template"
	"net/http"

	"stocks-trader/middleware"
	"stocks-trader/web"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route of the app onto a fresh gin engine.
func NewRouter(h *Handler, tmpl *template.Template, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(tmpl)

	r.Use(
		middleware.RequestLogger(h.logger),
		gin.CustomRecovery(h.onPanic),
		middleware.NoCache(),
		middleware.Sessions(h.sessions, h.logger),
	)
	r.NoRoute(func(c *gin.Context) { h.apology(c, http.StatusNotFound, "Not Found") })
	r.NoMethod(func(c *gin.Context) { h.apology(c, http.StatusMethodNotAllowed, "Method Not Allowed") })

	r.StaticFS("/static", web.Static())
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	limit := limiter.Limit(func(c *gin.Context) {
		h.apology(c, http.StatusTooManyRequests, "too many attempts, try again later")
	})
	r.GET("/register", h.RegisterForm)
	r.POST("/register", limit, h.Register)
	r.GET("/login", h.LoginForm)
	r.POST("/login", limit, h.Login)
	r.GET("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.LoginRequired())
	{
		auth.GET("/", h.Index)
		auth.GET("/buy", h.BuyForm)
		auth.POST("/buy", h.Buy)
		auth.GET("/sell", h.SellForm)
		auth.POST("/sell", h.Sell)
		auth.GET("/history", h.History)
		auth.GET("/quote", h.QuoteForm)
		auth.POST("/quote", h.Quote)
	}

	return r
}
