package handlers

import (
	"errors"
	"net/http"

	"stocks-trader/quote"

	"github.com/gin-gonic/gin"
)

func (h *Handler) QuoteForm(c *gin.Context) {
	h.render(c, http.StatusOK, "quote.html", gin.H{"Title": "Quote", "Symbol": ""})
}

func (h *Handler) Quote(c *gin.Context) {
	symbol := quote.Normalize(c.PostForm("symbol"))

	q, err := h.quotes.Lookup(c.Request.Context(), symbol)
	if errors.Is(err, quote.ErrNotFound) {
		h.render(c, http.StatusBadRequest, "quote.html", gin.H{
			"Title":  "Quote",
			"Symbol": symbol,
			"Error":  "Must enter a valid symbol",
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "quoted.html", gin.H{"Title": "Quoted", "Quote": q})
}
