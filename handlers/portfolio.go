package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"stocks-trader/database"
	"stocks-trader/middleware"
	"stocks-trader/quote"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// holdingRow is one line of the portfolio table, priced at the current quote.
type holdingRow struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

func (h *Handler) Index(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	ctx := c.Request.Context()

	user, err := h.store.User(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	holdings, err := h.store.Holdings(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	rows := make([]holdingRow, 0, len(holdings))
	total := user.Cash
	for _, holding := range holdings {
		q, err := h.quotes.Lookup(ctx, holding.Symbol)
		if err != nil {
			h.fail(c, fmt.Errorf("price %s: %w", holding.Symbol, err))
			return
		}
		value := q.Cost(holding.Shares)
		rows = append(rows, holdingRow{
			Symbol: holding.Symbol,
			Name:   q.Name,
			Shares: holding.Shares,
			Price:  q.Price,
			Value:  value,
		})
		total = total.Add(value)
	}

	h.render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Portfolio",
		"Rows":  rows,
		"Cash":  user.Cash,
		"Total": total,
	})
}

func (h *Handler) BuyForm(c *gin.Context) {
	h.renderBuy(c, http.StatusOK, "", "", "")
}

func (h *Handler) renderBuy(c *gin.Context, code int, symbol, shares, msg string) {
	h.render(c, code, "buy.html", gin.H{
		"Title":  "Buy",
		"Symbol": symbol,
		"Shares": shares,
		"Error":  msg,
	})
}

func (h *Handler) Buy(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	ctx := c.Request.Context()
	symbol := quote.Normalize(c.PostForm("symbol"))
	rawShares := c.PostForm("shares")

	q, err := h.quotes.Lookup(ctx, symbol)
	if errors.Is(err, quote.ErrNotFound) {
		h.renderBuy(c, http.StatusBadRequest, symbol, rawShares, "Enter a valid symbol")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	shares, err := ParseShares(rawShares)
	if err != nil {
		h.renderBuy(c, http.StatusBadRequest, symbol, rawShares, err.Error())
		return
	}

	if _, err := h.store.Buy(ctx, database.Trade{
		UserID: userID,
		Symbol: q.Symbol,
		Shares: shares,
		Price:  q.Price,
	}); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("shares purchased", "user_id", userID, "symbol", q.Symbol, "shares", shares)
	h.flash(c, fmt.Sprintf("Purchased %d of %s", shares, q.Name))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) SellForm(c *gin.Context) {
	h.renderSell(c, http.StatusOK, "", "", "")
}

func (h *Handler) renderSell(c *gin.Context, code int, symbol, shares, msg string) {
	userID, _ := middleware.UserID(c)
	symbols, err := h.store.HeldSymbols(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, code, "sell.html", gin.H{
		"Title":   "Sell",
		"Symbols": symbols,
		"Symbol":  symbol,
		"Shares":  shares,
		"Error":   msg,
	})
}

func (h *Handler) Sell(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	ctx := c.Request.Context()
	rawShares := c.PostForm("shares")

	symbol, err := ParseSymbol(c.PostForm("symbol"))
	if err != nil {
		h.renderSell(c, http.StatusBadRequest, "", rawShares, err.Error())
		return
	}
	shares, err := ParseShares(rawShares)
	if err != nil {
		h.renderSell(c, http.StatusBadRequest, symbol, rawShares, err.Error())
		return
	}

	q, err := h.quotes.Lookup(ctx, symbol)
	if errors.Is(err, quote.ErrNotFound) {
		h.renderSell(c, http.StatusBadRequest, symbol, rawShares, "Enter a valid symbol")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.store.Sell(ctx, database.Trade{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Price:  q.Price,
	}); err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("shares sold", "user_id", userID, "symbol", symbol, "shares", shares)
	h.flash(c, fmt.Sprintf("Sold %d of %s", shares, q.Name))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) History(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	transactions, err := h.store.History(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "history.html", gin.H{
		"Title":        "History",
		"Transactions": transactions,
	})
}
