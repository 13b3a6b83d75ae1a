// Package handlers serves the HTML pages of the trading app.
package handlers

import (
	"log/slog"

	"stocks-trader/database"
	"stocks-trader/quote"
	"stocks-trader/session"
)

type Handler struct {
	store    *database.Store
	quotes   quote.Lookup
	sessions *session.Store
	logger   *slog.Logger
}

func New(store *database.Store, quotes quote.Lookup, sessions *session.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		quotes:   quotes,
		sessions: sessions,
		logger:   logger,
	}
}
