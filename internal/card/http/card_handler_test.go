package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/card/http/dto"
	"github.com/allisson/cardbook/internal/card/usecase"
	"github.com/allisson/cardbook/internal/card/http/mocks"
	apperrors "github.com/allisson/cardbook/internal/errors"
	"github.com/allisson/cardbook/internal/session"
)

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*CardHandler, *mocks.MockCardUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockCardUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewCardHandler(mockUseCase, logger)

	return handler, mockUseCase
}

// createTestContext builds a gin test context carrying an authenticated
// session for the given user.
func createTestContext(
	userID uuid.UUID,
	method, path string,
	body interface{},
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	sess := &session.Session{UserID: userID, Email: "tester@example.com"}
	c.Request = req.WithContext(session.WithSession(req.Context(), sess))

	return c, w
}

// sampleCard returns a card the way the store hands it out: grouped
// display number and normalized fields.
func sampleCard(userID uuid.UUID) *domain.Card {
	now := time.Now().UTC()
	return &domain.Card{
		ID:             uuid.Must(uuid.NewV7()),
		UserID:         userID,
		CardNumber:     "4111 1111 1111 1111",
		Nickname:       "日常消费",
		Network:        domain.NetworkVisa,
		Level:          domain.LevelGold,
		Limit:          50000,
		Color:          "aurora",
		ExpiryDate:     "12/27",
		CardholderName: "WEI CHEN",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCardHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)

		mockUseCase.On("FetchCards", mock.Anything, userID).Return([]domain.Card{*card}).Once()
		mockUseCase.On("Status", userID).Return(usecase.Status{}).Once()

		c, w := createTestContext(userID, http.MethodGet, "/v1/cards", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListCardsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		require.Len(t, response.Cards, 1)
		assert.Equal(t, card.ID.String(), response.Cards[0].ID)
		assert.Equal(t, "•••• •••• •••• 1111", response.Cards[0].MaskedNumber)
		assert.Empty(t, response.Status.Error)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("DegradedStatusCarried", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("FetchCards", mock.Anything, userID).Return([]domain.Card{}).Once()
		mockUseCase.On("Status", userID).
			Return(usecase.Status{Error: "card collection unavailable"}).Once()

		c, w := createTestContext(userID, http.MethodGet, "/v1/cards", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListCardsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Empty(t, response.Cards)
		assert.Equal(t, "card collection unavailable", response.Status.Error)
	})

	t.Run("Error_NoSession", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/cards", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCardHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)

		request := dto.CreateCardRequest{
			CardNumber:      "4111111111111111",
			Nickname:        "日常消费",
			Network:         "Visa",
			Level:           "Gold",
			Limit:           50000,
			AnnualFeeWaived: true,
		}

		mockUseCase.On("AddCard", mock.Anything, userID, request.ToInput()).
			Return(card, nil).Once()

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CardResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, card.ID.String(), response.ID)
		assert.Equal(t, "Visa", response.Network)
		assert.Equal(t, "¥50,000", response.LimitDisplay)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("{not json")))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_FailsLuhnCheck", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		request := dto.CreateCardRequest{
			CardNumber: "4111111111111112",
			Network:    "Visa",
			Level:      "Gold",
		}

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UnknownNetwork", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		request := dto.CreateCardRequest{
			CardNumber: "4111111111111111",
			Network:    "Discover",
			Level:      "Gold",
		}

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_RepositoryUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		request := dto.CreateCardRequest{
			CardNumber:      "4111111111111111",
			Network:         "Visa",
			Level:           "Standard",
			AnnualFeeWaived: true,
		}

		mockUseCase.On("AddCard", mock.Anything, userID, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrUnavailable, "create card")).Once()

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestCardHandler_UpdateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)
		nickname := "备用卡"

		request := dto.UpdateCardRequest{Nickname: &nickname}

		mockUseCase.On("UpdateCard", mock.Anything, userID, card.ID, request.ToPatch()).
			Return(card, nil).Once()

		c, w := createTestContext(userID, http.MethodPatch, "/v1/cards/"+card.ID.String(), request)
		c.Params = gin.Params{{Key: "id", Value: card.ID.String()}}

		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(userID, http.MethodPatch, "/v1/cards/not-a-uuid", dto.UpdateCardRequest{})
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		cardID := uuid.Must(uuid.NewV7())

		mockUseCase.On("UpdateCard", mock.Anything, userID, cardID, mock.Anything).
			Return(nil, domain.ErrCardNotFound).Once()

		c, w := createTestContext(userID, http.MethodPatch, "/v1/cards/"+cardID.String(), dto.UpdateCardRequest{})
		c.Params = gin.Params{{Key: "id", Value: cardID.String()}}

		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_PatchedNumberFailsNetworkRules", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		cardID := uuid.Must(uuid.NewV7())

		// Valid Luhn but 16 digits, while Amex requires 15.
		number := "4111111111111111"
		network := "Amex"
		request := dto.UpdateCardRequest{CardNumber: &number, Network: &network}

		c, w := createTestContext(userID, http.MethodPatch, "/v1/cards/"+cardID.String(), request)
		c.Params = gin.Params{{Key: "id", Value: cardID.String()}}

		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestCardHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		cardID := uuid.Must(uuid.NewV7())

		mockUseCase.On("DeleteCard", mock.Anything, userID, cardID).Return(nil).Once()

		c, w := createTestContext(userID, http.MethodDelete, "/v1/cards/"+cardID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: cardID.String()}}

		handler.DeleteHandler(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		cardID := uuid.Must(uuid.NewV7())

		mockUseCase.On("DeleteCard", mock.Anything, userID, cardID).
			Return(domain.ErrCardNotFound).Once()

		c, w := createTestContext(userID, http.MethodDelete, "/v1/cards/"+cardID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: cardID.String()}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCardHandler_ToggleFavoriteHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	userID := uuid.Must(uuid.NewV7())
	card := sampleCard(userID)
	card.IsFavorite = true

	mockUseCase.On("ToggleFavorite", mock.Anything, userID, card.ID).Return(card, nil).Once()

	c, w := createTestContext(userID, http.MethodPost, "/v1/cards/"+card.ID.String()+"/favorite", nil)
	c.Params = gin.Params{{Key: "id", Value: card.ID.String()}}

	handler.ToggleFavoriteHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.CardResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.True(t, response.IsFavorite)
	mockUseCase.AssertExpectations(t)
}

func TestCardHandler_SearchHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)

		mockUseCase.On("SearchCards", mock.Anything, userID, "日常").
			Return([]domain.Card{*card}).Once()
		mockUseCase.On("Status", userID).Return(usecase.Status{}).Once()

		c, w := createTestContext(userID, http.MethodGet, "/v1/cards/search?q=日常", nil)
		handler.SearchHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListCardsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Len(t, response.Cards, 1)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_BlankQueryReturnsAll", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)

		mockUseCase.On("SearchCards", mock.Anything, userID, "").
			Return([]domain.Card{*card}).Once()
		mockUseCase.On("Status", userID).Return(usecase.Status{}).Once()

		c, w := createTestContext(userID, http.MethodGet, "/v1/cards/search", nil)
		handler.SearchHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListCardsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Len(t, response.Cards, 1)
		mockUseCase.AssertExpectations(t)
	})
}

func TestCardHandler_FilterHandler(t *testing.T) {
	t.Run("Success_AllFilters", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)

		network := domain.NetworkVisa
		level := domain.LevelGold
		minLimit := int64(10000)
		maxLimit := int64(100000)
		favorite := false
		expected := domain.Filters{
			Network:    &network,
			Level:      &level,
			MinLimit:   &minLimit,
			MaxLimit:   &maxLimit,
			IsFavorite: &favorite,
		}

		mockUseCase.On("FilterCards", mock.Anything, userID, expected).
			Return([]domain.Card{*card}).Once()
		mockUseCase.On("Status", userID).Return(usecase.Status{}).Once()

		c, w := createTestContext(userID, http.MethodGet,
			"/v1/cards/filter?network=Visa&level=Gold&minLimit=10000&maxLimit=100000&favorite=false", nil)
		handler.FilterHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UnknownNetwork", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(userID, http.MethodGet, "/v1/cards/filter?network=Discover", nil)
		handler.FilterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_BadLimit", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(userID, http.MethodGet, "/v1/cards/filter?minLimit=abc", nil)
		handler.FilterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCardHandler_StatsHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	userID := uuid.Must(uuid.NewV7())

	mockUseCase.On("FetchStats", mock.Anything, userID).Return(&domain.Stats{
		TotalCards: 2,
		TotalLimit: 80000,
		AvgLimit:   40000,
		MaxLimit:   50000,
		MinLimit:   30000,
	}).Once()

	c, w := createTestContext(userID, http.MethodGet, "/v1/cards/stats", nil)
	handler.StatsHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, int64(2), response.TotalCards)
	assert.Equal(t, "¥80,000", response.TotalLimitDisplay)
	mockUseCase.AssertExpectations(t)
}

func TestCardHandler_ImportHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())
		card := sampleCard(userID)

		document := map[string]interface{}{
			"version": 1,
			"cards":   []domain.Card{*card},
		}

		mockUseCase.On("ImportCards", mock.Anything, userID, mock.Anything).
			Return(usecase.ImportReport{Created: 1}).Once()

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards/import", document)
		handler.ImportHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var report usecase.ImportReport
		err := json.Unmarshal(w.Body.Bytes(), &report)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Created)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedDocument", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards/import",
			map[string]interface{}{"version": 99})
		handler.ImportHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestCardHandler_ExportHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	userID := uuid.Must(uuid.NewV7())
	card := sampleCard(userID)

	mockUseCase.On("ExportCards", userID).Return([]domain.Card{*card}).Once()

	c, w := createTestContext(userID, http.MethodGet, "/v1/cards/export", nil)
	handler.ExportHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cards.json")

	var document struct {
		Version int           `json:"version"`
		Cards   []domain.Card `json:"cards"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &document)
	require.NoError(t, err)
	assert.Equal(t, 1, document.Version)
	assert.Len(t, document.Cards, 1)
	mockUseCase.AssertExpectations(t)
}

func TestCardHandler_ClearHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	userID := uuid.Must(uuid.NewV7())

	mockUseCase.On("Clear", mock.Anything, userID).
		Return(usecase.ClearReport{Deleted: 3, Failed: 1}).Once()

	c, w := createTestContext(userID, http.MethodDelete, "/v1/cards", nil)
	handler.ClearHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var report usecase.ClearReport
	err := json.Unmarshal(w.Body.Bytes(), &report)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Deleted)
	assert.Equal(t, 1, report.Failed)
	mockUseCase.AssertExpectations(t)
}

func TestCardHandler_SyncHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("SyncWithDatabase", mock.Anything, userID).Return(nil).Once()
		mockUseCase.On("Status", userID).Return(usecase.Status{}).Once()

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards/sync", nil)
		handler.SyncHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_Unavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("SyncWithDatabase", mock.Anything, userID).
			Return(apperrors.Wrap(apperrors.ErrUnavailable, "sync")).Once()

		c, w := createTestContext(userID, http.MethodPost, "/v1/cards/sync", nil)
		handler.SyncHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}
