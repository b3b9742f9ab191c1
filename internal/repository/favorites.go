package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/nearby/api/internal/entity"
)

// FavoritesRepository persists the user to business favorite relation.
type FavoritesRepository interface {
	Toggle(ctx context.Context, userID uuid.UUID, businessID string) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

// PGXFavoritesRepository implements FavoritesRepository with pgx.
type PGXFavoritesRepository struct {
	pool pgxPool
}

// NewPGXFavoritesRepository wires a pgx backed favorites store.
func NewPGXFavoritesRepository(pool *pgxpool.Pool) *PGXFavoritesRepository {
	return &PGXFavoritesRepository{pool: pool}
}

// Toggle removes the favorite when present and adds it otherwise. It reports
// whether the business is a favorite after the call.
func (r *PGXFavoritesRepository) Toggle(ctx context.Context, userID uuid.UUID, businessID string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("start favorite tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND business_id = $2`, userID, businessID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}

	favorite := tag.RowsAffected() == 0
	if favorite {
		if _, err := tx.Exec(ctx, `
            INSERT INTO favorites (user_id, business_id)
            VALUES ($1, $2)
            ON CONFLICT (user_id, business_id) DO NOTHING
        `, userID, businessID); err != nil {
			return false, fmt.Errorf("insert favorite: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit favorite tx: %w", err)
	}
	return favorite, nil
}

// List returns the favorites of a user, newest first.
func (r *PGXFavoritesRepository) List(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT user_id, business_id, created_at
        FROM favorites
        WHERE user_id = $1
        ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []entity.Favorite{}
	for rows.Next() {
		var favorite entity.Favorite
		if err := rows.Scan(&favorite.UserID, &favorite.BusinessID, &favorite.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}
