// Package domain defines the card entity, its numbering and normalization
// rules, and the aggregate statistics derived from a collection.
package domain

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/cardbook/internal/errors"
)

// MaxLimit caps the credit limit in currency units.
const MaxLimit = 500_000

// MaxNicknameLength caps the free-text nickname.
const MaxNicknameLength = 30

// Domain-specific errors for card operations.
var (
	// ErrCardNotFound indicates the requested card does not exist.
	ErrCardNotFound = apperrors.Wrap(apperrors.ErrNotFound, "card not found")

	// ErrSnapshotCorrupt indicates the persisted snapshot could not be parsed.
	// Recoverable: the store starts empty and surfaces a one-time warning.
	ErrSnapshotCorrupt = apperrors.New("card snapshot corrupt")
)

// Card is the central entity: one bank card record owned by a single user.
// CardNumber is stored in grouped display form by the local store and in
// digits-only form by the remote repository; both stores normalize through
// the same rules here. Numbers are cosmetic identifiers, not live PANs.
type Card struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"userId,omitempty"`
	CardNumber         string    `json:"cardNumber"`
	Nickname           string    `json:"nickname,omitempty"`
	Network            Network   `json:"network"`
	Level              Level     `json:"level"`
	Limit              int64     `json:"limit"`
	Color              string    `json:"color,omitempty"`
	AnnualFeeWaived    bool      `json:"annualFeeWaived"`
	AnnualFeeCondition string    `json:"annualFeeCondition,omitempty"`
	ExpiryDate         string    `json:"expiryDate,omitempty"`
	CardholderName     string    `json:"cardholderName,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	IsFavorite         bool      `json:"isFavorite"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CardInput carries the caller-supplied fields for creating a card.
// Validation happens upstream (DTO layer); normalization happens here.
type CardInput struct {
	CardNumber         string
	Nickname           string
	Network            Network
	Level              Level
	Limit              float64
	Color              string
	AnnualFeeWaived    bool
	AnnualFeeCondition string
	ExpiryDate         string
	CardholderName     string
	Notes              string
	IsFavorite         bool
}

// CardPatch carries a partial field replacement. Nil fields are untouched.
type CardPatch struct {
	CardNumber         *string
	Nickname           *string
	Network            *Network
	Level              *Level
	Limit              *float64
	Color              *string
	AnnualFeeWaived    *bool
	AnnualFeeCondition *string
	ExpiryDate         *string
	CardholderName     *string
	Notes              *string
	IsFavorite         *bool
}

// ClampLimit rounds a limit and clamps it into [0, MaxLimit].
func ClampLimit(limit float64) int64 {
	rounded := int64(math.Round(limit))
	if rounded < 0 {
		return 0
	}
	if rounded > MaxLimit {
		return MaxLimit
	}
	return rounded
}

// NewCard builds a normalized card from caller input: grouped display
// number, clamped limit, network-default color when unset, annual-fee
// condition cleared when waived, fresh id and timestamps.
func NewCard(input CardInput, now time.Time) Card {
	color := input.Color
	if color == "" {
		color = DefaultGradient(input.Network)
	}

	condition := ""
	if !input.AnnualFeeWaived {
		condition = strings.TrimSpace(input.AnnualFeeCondition)
	}

	return Card{
		ID:                 uuid.Must(uuid.NewV7()),
		CardNumber:         FormatNumber(input.CardNumber),
		Nickname:           strings.TrimSpace(input.Nickname),
		Network:            input.Network,
		Level:              input.Level,
		Limit:              ClampLimit(input.Limit),
		Color:              color,
		AnnualFeeWaived:    input.AnnualFeeWaived,
		AnnualFeeCondition: condition,
		ExpiryDate:         input.ExpiryDate,
		CardholderName:     strings.TrimSpace(input.CardholderName),
		Notes:              input.Notes,
		IsFavorite:         input.IsFavorite,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ApplyPatch applies a partial update in place, re-normalizing the patched
// fields exactly as NewCard does and refreshing UpdatedAt. Both store
// backends share this so they differ only in persistence strategy.
func ApplyPatch(c *Card, patch CardPatch, now time.Time) {
	if patch.CardNumber != nil {
		c.CardNumber = FormatNumber(*patch.CardNumber)
	}
	if patch.Nickname != nil {
		c.Nickname = strings.TrimSpace(*patch.Nickname)
	}
	if patch.Network != nil {
		c.Network = *patch.Network
	}
	if patch.Level != nil {
		c.Level = *patch.Level
	}
	if patch.Limit != nil {
		c.Limit = ClampLimit(*patch.Limit)
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if patch.AnnualFeeWaived != nil {
		c.AnnualFeeWaived = *patch.AnnualFeeWaived
	}
	if c.AnnualFeeWaived {
		c.AnnualFeeCondition = ""
	} else if patch.AnnualFeeCondition != nil {
		c.AnnualFeeCondition = strings.TrimSpace(*patch.AnnualFeeCondition)
	}
	if patch.ExpiryDate != nil {
		c.ExpiryDate = *patch.ExpiryDate
	}
	if patch.CardholderName != nil {
		c.CardholderName = strings.TrimSpace(*patch.CardholderName)
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.IsFavorite != nil {
		c.IsFavorite = *patch.IsFavorite
	}
	c.UpdatedAt = now
}

// MergeByID reconciles two collections keyed by id: for ids present in both,
// the record with the strictly later UpdatedAt wins (ties keep the existing
// record); ids present only in the import are added. The result is sorted by
// UpdatedAt descending. Idempotent, and commutative on disjoint id sets.
func MergeByID(existing, imported []Card) []Card {
	merged := make(map[uuid.UUID]Card, len(existing)+len(imported))
	for _, c := range existing {
		merged[c.ID] = c
	}
	for _, c := range imported {
		current, ok := merged[c.ID]
		if !ok || c.UpdatedAt.After(current.UpdatedAt) {
			merged[c.ID] = c
		}
	}

	out := make([]Card, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	SortByUpdatedAtDesc(out)
	return out
}

// SortByUpdatedAtDesc orders newest-updated first, breaking exact ties by id
// so the result is deterministic.
func SortByUpdatedAtDesc(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int {
		switch {
		case a.UpdatedAt.After(b.UpdatedAt):
			return -1
		case a.UpdatedAt.Before(b.UpdatedAt):
			return 1
		default:
			return strings.Compare(a.ID.String(), b.ID.String())
		}
	})
}
