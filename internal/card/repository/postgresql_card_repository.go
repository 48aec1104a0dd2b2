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

// PostgreSQLCardRepository handles card persistence for PostgreSQL.
type PostgreSQLCardRepository struct {
	db *sql.DB
}

// NewPostgreSQLCardRepository creates a new PostgreSQLCardRepository.
func NewPostgreSQLCardRepository(db *sql.DB) *PostgreSQLCardRepository {
	return &PostgreSQLCardRepository{db: db}
}

// Create inserts a new card for the user and returns the authoritative
// record with its assigned id and timestamps.
func (r *PostgreSQLCardRepository) Create(
	ctx context.Context,
	userID uuid.UUID,
	card domain.Card,
) (*domain.Card, error) {
	newCardRow(userID, &card, time.Now().UTC())

	query := `INSERT INTO user_cards (` + cardColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			  RETURNING ` + cardColumns

	row := r.db.QueryRowContext(ctx, query,
		card.ID, card.UserID, card.CardNumber, nullable(card.Nickname),
		string(card.Network), string(card.Level), nullable(card.Color),
		card.AnnualFeeWaived, nullable(card.AnnualFeeCondition), card.Limit,
		nullable(card.ExpiryDate), nullable(card.CardholderName),
		nullable(card.Notes), card.IsFavorite, card.CreatedAt, card.UpdatedAt,
	)

	created, err := scanCard(row)
	if err != nil {
		return nil, wrapQueryError(err, "failed to create card")
	}
	return created, nil
}

// GetByID retrieves one of the user's cards by id.
func (r *PostgreSQLCardRepository) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM user_cards WHERE user_id = $1 AND id = $2`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		return nil, wrapQueryError(err, "failed to get card")
	}
	return card, nil
}

// Update applies a partial update: only the patched columns are written,
// and the authoritative row is returned.
func (r *PostgreSQLCardRepository) Update(
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
	for i, a := range assignments {
		set = append(set, fmt.Sprintf("%s = $%d", a.column, i+1))
		args = append(args, a.value)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, userID, id)

	query := fmt.Sprintf(
		`UPDATE user_cards SET %s WHERE user_id = $%d AND id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args)-1, len(args), cardColumns,
	)

	card, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapQueryError(err, "failed to update card")
	}
	return card, nil
}

// Delete removes one of the user's cards by id.
func (r *PostgreSQLCardRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM user_cards WHERE user_id = $1 AND id = $2`,
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
func (r *PostgreSQLCardRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM user_cards
			  WHERE user_id = $1 ORDER BY created_at DESC`

	return r.queryCards(ctx, "failed to list cards", query, userID)
}

// Search matches a substring, case-insensitively, across card number,
// nickname, and network.
func (r *PostgreSQLCardRepository) Search(
	ctx context.Context,
	userID uuid.UUID,
	search string,
) ([]domain.Card, error) {
	pattern := "%" + search + "%"
	query := `SELECT ` + cardColumns + ` FROM user_cards
			  WHERE user_id = $1
			  AND (card_number ILIKE $2 OR nickname ILIKE $2 OR network ILIKE $2)
			  ORDER BY created_at DESC`

	return r.queryCards(ctx, "failed to search cards", query, userID, pattern)
}

// Filter applies equality filters on network, level, and favorite flag, and
// range filters on the limit.
func (r *PostgreSQLCardRepository) Filter(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) ([]domain.Card, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	appendCondition := func(condition string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(condition, len(args)))
	}

	if filters.Network != nil {
		appendCondition("network = $%d", string(*filters.Network))
	}
	if filters.Level != nil {
		appendCondition("level = $%d", string(*filters.Level))
	}
	if filters.MinLimit != nil {
		appendCondition("limit_amount >= $%d", *filters.MinLimit)
	}
	if filters.MaxLimit != nil {
		appendCondition("limit_amount <= $%d", *filters.MaxLimit)
	}
	if filters.IsFavorite != nil {
		appendCondition("is_favorite = $%d", *filters.IsFavorite)
	}

	query := `SELECT ` + cardColumns + ` FROM user_cards WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	return r.queryCards(ctx, "failed to filter cards", query, args...)
}

// Stats reads the aggregate-statistics projection for the user. A user with
// no cards yields zero-valued stats.
func (r *PostgreSQLCardRepository) Stats(ctx context.Context, userID uuid.UUID) (*domain.Stats, error) {
	query := `SELECT total_cards, total_limit, avg_limit, max_limit, min_limit
			  FROM user_card_stats WHERE user_id = $1`

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

// queryCards runs a multi-row card query and parses every row fail-closed.
func (r *PostgreSQLCardRepository) queryCards(
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
