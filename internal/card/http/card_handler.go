// Package http provides HTTP handlers for card collection operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/card/http/dto"
	"github.com/allisson/cardbook/internal/card/transfer"
	"github.com/allisson/cardbook/internal/card/usecase"
	apperrors "github.com/allisson/cardbook/internal/errors"
	"github.com/allisson/cardbook/internal/httputil"
	"github.com/allisson/cardbook/internal/session"
	customValidation "github.com/allisson/cardbook/internal/validation"
)

// CardHandler handles HTTP requests for the card collection.
type CardHandler struct {
	cardUseCase usecase.CardUseCase
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler with required dependencies.
func NewCardHandler(cardUseCase usecase.CardUseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
	}
}

// userID reads the verified session. The session middleware guarantees its
// presence on registered routes; a missing session is a wiring bug surfaced
// as 401 rather than a panic.
func (h *CardHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	sess, ok := session.CurrentUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return sess.UserID, true
}

// cardID parses the :id path parameter.
func (h *CardHandler) cardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid card id: %w", err), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// ListHandler returns the user's collection, refreshed from the database
// when it is reachable and answered from the cached mirror when it is not.
// GET /v1/cards
func (h *CardHandler) ListHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	cards := h.cardUseCase.FetchCards(c.Request.Context(), userID)
	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards, h.cardUseCase.Status(userID)))
}

// CreateHandler adds a card to the collection.
// POST /v1/cards
func (h *CardHandler) CreateHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	card, err := h.cardUseCase.AddCard(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCardToResponse(card))
}

// UpdateHandler applies a partial update to a card.
// PATCH /v1/cards/:id
func (h *CardHandler) UpdateHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.cardID(c)
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	card, err := h.cardUseCase.UpdateCard(c.Request.Context(), userID, id, req.ToPatch())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToResponse(card))
}

// DeleteHandler removes a card from the collection.
// DELETE /v1/cards/:id
func (h *CardHandler) DeleteHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.cardID(c)
	if !ok {
		return
	}

	if err := h.cardUseCase.DeleteCard(c.Request.Context(), userID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleFavoriteHandler flips a card's favorite flag.
// POST /v1/cards/:id/favorite
func (h *CardHandler) ToggleFavoriteHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.cardID(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.ToggleFavorite(c.Request.Context(), userID, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToResponse(card))
}

// SearchHandler matches a substring across number, nickname, and network.
// A blank query matches everything. GET /v1/cards/search?q=
func (h *CardHandler) SearchHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	cards := h.cardUseCase.SearchCards(c.Request.Context(), userID, query)
	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards, h.cardUseCase.Status(userID)))
}

// FilterHandler applies structured filters to the collection.
// GET /v1/cards/filter?network=&level=&minLimit=&maxLimit=&favorite=
func (h *CardHandler) FilterHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	cards := h.cardUseCase.FilterCards(c.Request.Context(), userID, filters)
	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards, h.cardUseCase.Status(userID)))
}

// StatsHandler returns aggregate statistics over the collection.
// GET /v1/cards/stats
func (h *CardHandler) StatsHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	stats := h.cardUseCase.FetchStats(c.Request.Context(), userID)
	c.JSON(http.StatusOK, dto.MapStatsToResponse(stats))
}

// ImportHandler reads a versioned export document and creates its cards.
// Individual record failures do not abort the import.
// POST /v1/cards/import
func (h *CardHandler) ImportHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	cards, err := transfer.Import(data)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	report := h.cardUseCase.ImportCards(c.Request.Context(), userID, cards)
	c.JSON(http.StatusOK, report)
}

// ExportHandler writes the collection as a versioned document.
// GET /v1/cards/export
func (h *CardHandler) ExportHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	data, err := transfer.Export(h.cardUseCase.ExportCards(userID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cards.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ClearHandler empties the collection, tolerating per-record failures.
// DELETE /v1/cards
func (h *CardHandler) ClearHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	report := h.cardUseCase.Clear(c.Request.Context(), userID)
	c.JSON(http.StatusOK, report)
}

// SyncHandler forces a refresh of the cached mirror.
// POST /v1/cards/sync
func (h *CardHandler) SyncHandler(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.cardUseCase.SyncWithDatabase(c.Request.Context(), userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, h.cardUseCase.Status(userID))
}

// parseFilters builds domain filters from query parameters; absent
// parameters leave the matching field unset.
func parseFilters(c *gin.Context) (domain.Filters, error) {
	var filters domain.Filters

	if raw := c.Query("network"); raw != "" {
		network, err := domain.ParseNetwork(raw)
		if err != nil {
			return filters, fmt.Errorf("invalid network parameter: %q", raw)
		}
		filters.Network = &network
	}
	if raw := c.Query("level"); raw != "" {
		level, err := domain.ParseLevel(raw)
		if err != nil {
			return filters, fmt.Errorf("invalid level parameter: %q", raw)
		}
		filters.Level = &level
	}
	if raw := c.Query("minLimit"); raw != "" {
		min, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid minLimit parameter: %q", raw)
		}
		filters.MinLimit = &min
	}
	if raw := c.Query("maxLimit"); raw != "" {
		max, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid maxLimit parameter: %q", raw)
		}
		filters.MaxLimit = &max
	}
	if raw := c.Query("favorite"); raw != "" {
		favorite, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, fmt.Errorf("invalid favorite parameter: %q", raw)
		}
		filters.IsFavorite = &favorite
	}

	return filters, nil
}
