// Package repository provides data persistence implementations for the
// remote card repository: a per-user collection over the user_cards table,
// with a read-only aggregate-statistics projection. Every operation is
// scoped to the owning user; rows are parsed fail-closed into the Card
// entity so malformed wire data never propagates.
package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// cardColumns is the canonical column list, matching the order scanned by
// scanCard. The repository speaks snake_case; the entity speaks the
// display-facing names (cardNumber <-> card_number, limit <-> limit_amount,
// and so on).
const cardColumns = `id, user_id, card_number, nickname, network, level, color,
	annual_fee_waived, annual_fee_condition, limit_amount, expiry_date,
	cardholder_name, notes, is_favorite, created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard parses one user_cards row into a Card, failing closed on
// unknown network or level values.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card        domain.Card
		network     string
		level       string
		nickname    sql.NullString
		color       sql.NullString
		feeCond     sql.NullString
		expiryDate  sql.NullString
		cardholder  sql.NullString
		notes       sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		limitAmount int64
	)

	err := row.Scan(
		&card.ID, &card.UserID, &card.CardNumber, &nickname, &network, &level, &color,
		&card.AnnualFeeWaived, &feeCond, &limitAmount, &expiryDate,
		&cardholder, &notes, &card.IsFavorite, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Network, err = domain.ParseNetwork(network)
	if err != nil {
		return nil, err
	}
	card.Level, err = domain.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	card.Nickname = nickname.String
	card.Color = color.String
	card.AnnualFeeCondition = feeCond.String
	card.ExpiryDate = expiryDate.String
	card.CardholderName = cardholder.String
	card.Notes = notes.String
	card.Limit = limitAmount
	card.CreatedAt = createdAt
	card.UpdatedAt = updatedAt
	return &card, nil
}

// nullable converts an empty string to NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// patchAssignment is one SET clause entry of a partial update.
type patchAssignment struct {
	column string
	value  any
}

// patchAssignments translates a CardPatch into repository column
// assignments. Only fields present in the patch are translated; card
// numbers are stripped to digits and empty dates become NULL before
// transmission.
func patchAssignments(patch domain.CardPatch) []patchAssignment {
	var out []patchAssignment

	if patch.CardNumber != nil {
		out = append(out, patchAssignment{"card_number", domain.NormalizeDigits(*patch.CardNumber)})
	}
	if patch.Nickname != nil {
		out = append(out, patchAssignment{"nickname", nullable(strings.TrimSpace(*patch.Nickname))})
	}
	if patch.Network != nil {
		out = append(out, patchAssignment{"network", string(*patch.Network)})
	}
	if patch.Level != nil {
		out = append(out, patchAssignment{"level", string(*patch.Level)})
	}
	if patch.Color != nil {
		out = append(out, patchAssignment{"color", nullable(*patch.Color)})
	}
	if patch.AnnualFeeWaived != nil {
		out = append(out, patchAssignment{"annual_fee_waived", *patch.AnnualFeeWaived})
		if *patch.AnnualFeeWaived {
			out = append(out, patchAssignment{"annual_fee_condition", sql.NullString{}})
		}
	}
	if patch.AnnualFeeCondition != nil && !waives(patch) {
		out = append(out, patchAssignment{"annual_fee_condition", nullable(strings.TrimSpace(*patch.AnnualFeeCondition))})
	}
	if patch.Limit != nil {
		out = append(out, patchAssignment{"limit_amount", domain.ClampLimit(*patch.Limit)})
	}
	if patch.ExpiryDate != nil {
		out = append(out, patchAssignment{"expiry_date", nullable(*patch.ExpiryDate)})
	}
	if patch.CardholderName != nil {
		out = append(out, patchAssignment{"cardholder_name", nullable(strings.TrimSpace(*patch.CardholderName))})
	}
	if patch.Notes != nil {
		out = append(out, patchAssignment{"notes", nullable(*patch.Notes)})
	}
	if patch.IsFavorite != nil {
		out = append(out, patchAssignment{"is_favorite", *patch.IsFavorite})
	}

	return out
}

func waives(patch domain.CardPatch) bool {
	return patch.AnnualFeeWaived != nil && *patch.AnnualFeeWaived
}

// newCardRow prepares the insert values for a normalized card: fresh id,
// digits-only number, NULL for absent optional fields.
func newCardRow(userID uuid.UUID, card *domain.Card, now time.Time) {
	card.ID = uuid.Must(uuid.NewV7())
	card.UserID = userID
	card.CardNumber = domain.NormalizeDigits(card.CardNumber)
	card.CreatedAt = now
	card.UpdatedAt = now
}

// wrapQueryError translates driver failures into the domain error taxonomy:
// missing rows to ErrCardNotFound, duplicate keys to ErrConflict, anything
// else to ErrUnavailable so read paths can degrade to the local cache.
func wrapQueryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, sql.ErrNoRows):
		return domain.ErrCardNotFound
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		// Fail-closed row parse; already a typed domain error.
		return err
	case isUniqueViolation(err):
		return apperrors.Wrap(apperrors.ErrConflict, op)
	default:
		return apperrors.Wrapf(apperrors.ErrUnavailable, "%s: %v", op, err)
	}
}

// isUniqueViolation checks for a unique constraint violation across both
// supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint"
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}
