package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// MySQLCardRepository handles card persistence for MySQL.
type MySQLCardRepository struct {
	db *sql.DB
}

// NewMySQLCardRepository creates a new MySQLCardRepository.
func NewMySQLCardRepository(db *sql.DB) *MySQLCardRepository {
	return &MySQLCardRepository{db: db}
}

// Create inserts a new card for the user. MySQL has no RETURNING clause, so
// the id is generated in the application and the row is read back after the
// insert.
func (r *MySQLCardRepository) Create(
	ctx context.Context,
	userID uuid.UUID,
	card domain.Card,
) (*domain.Card, error) {
	newCardRow(userID, &card, time.Now().UTC())

	query := `INSERT INTO user_cards (` + cardColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.UserID, card.CardNumber, nullable(card.Nickname),
		string(card.Network), string(card.Level), nullable(card.Color),
		card.AnnualFeeWaived, nullable(card.AnnualFeeCondition), card.Limit,
		nullable(card.ExpiryDate), nullable(card.CardholderName),
		nullable(card.Notes), card.IsFavorite, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return nil, wrapQueryError(err, "failed to create card")
	}

	return r.GetByID(ctx, userID, card.ID)
}

// GetByID retrieves one of the user's cards by id.
func (r *MySQLCardRepository) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM user_cards WHERE user_id = ? AND id = ?`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		return nil, wrapQueryError(err, "failed to get card")
	}
	return card, nil
}

// Update applies a partial update and reads the row back afterwards.
func (r *MySQLCardRepository) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	assignments := patchAssignments(patch)
	if len(assignments) == 0 {
		return r.GetByID(ctx, userID, id)
	}

	var (
		set  []string
		args []any
	)
	for _, a := range assignments {
		set = append(set, fmt.Sprintf("%s = ?", a.column))
		args = append(args, a.value)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, userID, id)

	query := fmt.Sprintf(
		`UPDATE user_cards SET %s WHERE user_id = ? AND id = ?`,
		strings.Join(set, ", "),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, wrapQueryError(err, "failed to update card")
	}

	// MySQL reports zero affected rows for no-op updates too, so a missing
	// row is detected by the read-back instead of RowsAffected.
	return r.GetByID(ctx, userID, id)
}

// Delete removes one of the user's cards by id.
func (r *MySQLCardRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM user_cards WHERE user_id = ? AND id = ?`,
		userID, id,
	)
	if err != nil {
		return wrapQueryError(err, "failed to delete card")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapQueryError(err, "failed to delete card")
	}
	if affected == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// ListByUser retrieves the user's full collection, newest first.
func (r *MySQLCardRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM user_cards
			  WHERE user_id = ? ORDER BY created_at DESC`

	return r.queryCards(ctx, "failed to list cards", query, userID)
}

// Search matches a substring, case-insensitively, across card number,
// nickname, and network.
func (r *MySQLCardRepository) Search(
	ctx context.Context,
	userID uuid.UUID,
	search string,
) ([]domain.Card, error) {
	pattern := "%" + strings.ToLower(search) + "%"
	query := `SELECT ` + cardColumns + ` FROM user_cards
			  WHERE user_id = ?
			  AND (LOWER(card_number) LIKE ? OR LOWER(nickname) LIKE ? OR LOWER(network) LIKE ?)
			  ORDER BY created_at DESC`

	return r.queryCards(ctx, "failed to search cards", query, userID, pattern, pattern, pattern)
}

// Filter applies equality filters on network, level, and favorite flag, and
// range filters on the limit.
func (r *MySQLCardRepository) Filter(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) ([]domain.Card, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	appendCondition := func(condition string, value any) {
		where = append(where, condition)
		args = append(args, value)
	}

	if filters.Network != nil {
		appendCondition("network = ?", string(*filters.Network))
	}
	if filters.Level != nil {
		appendCondition("level = ?", string(*filters.Level))
	}
	if filters.MinLimit != nil {
		appendCondition("limit_amount >= ?", *filters.MinLimit)
	}
	if filters.MaxLimit != nil {
		appendCondition("limit_amount <= ?", *filters.MaxLimit)
	}
	if filters.IsFavorite != nil {
		appendCondition("is_favorite = ?", *filters.IsFavorite)
	}

	query := `SELECT ` + cardColumns + ` FROM user_cards WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	return r.queryCards(ctx, "failed to filter cards", query, args...)
}

// Stats reads the aggregate-statistics projection for the user. A user with
// no cards yields zero-valued stats.
func (r *MySQLCardRepository) Stats(ctx context.Context, userID uuid.UUID) (*domain.Stats, error) {
	query := `SELECT total_cards, total_limit, avg_limit, max_limit, min_limit
			  FROM user_card_stats WHERE user_id = ?`

	var stats domain.Stats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalCards, &stats.TotalLimit, &stats.AvgLimit, &stats.MaxLimit, &stats.MinLimit,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return &domain.Stats{}, nil
		}
		return nil, wrapQueryError(err, "failed to get card stats")
	}
	return &stats, nil
}

func (r *MySQLCardRepository) queryCards(
	ctx context.Context,
	op, query string,
	args ...any,
) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err, op)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, wrapQueryError(err, op)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op)
	}
	return cards, nil
}
