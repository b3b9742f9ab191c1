package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/nearby/api/internal/entity"
)

// ReviewsRepository stores reviews for internal businesses and for external
// places. Reviews are append only.
type ReviewsRepository interface {
	ListByBusinesses(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error)
	ListByBusiness(ctx context.Context, id uuid.UUID) ([]entity.Review, error)
	CreateForBusiness(ctx context.Context, review *entity.Review) (*entity.Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]entity.Review, error)
	CreateForPlace(ctx context.Context, review *entity.Review) (*entity.Review, error)
}

// PGXReviewsRepository implements ReviewsRepository with pgx.
type PGXReviewsRepository struct {
	pool pgxPool
}

// NewPGXReviewsRepository wires a pgx backed review store.
func NewPGXReviewsRepository(pool *pgxpool.Pool) *PGXReviewsRepository {
	return &PGXReviewsRepository{pool: pool}
}

// ListByBusinesses loads reviews for many businesses in one round trip.
func (r *PGXReviewsRepository) ListByBusinesses(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error) {
	result := make(map[uuid.UUID][]entity.Review, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id::text, business_id::text, author_name, author_id::text, rating, comment, created_at
        FROM reviews
        WHERE business_id = ANY($1)
        ORDER BY created_at DESC
    `, ids)
	if err != nil {
		return nil, fmt.Errorf("list reviews by businesses: %w", err)
	}
	defer rows.Close()

	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, err
	}
	for _, review := range reviews {
		id, err := uuid.Parse(review.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("parse review business id: %w", err)
		}
		result[id] = append(result[id], review)
	}
	return result, nil
}

// ListByBusiness returns the reviews of one internal business, newest first.
func (r *PGXReviewsRepository) ListByBusiness(ctx context.Context, id uuid.UUID) ([]entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id::text, business_id::text, author_name, author_id::text, rating, comment, created_at
        FROM reviews
        WHERE business_id = $1
        ORDER BY created_at DESC
    `, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// CreateForBusiness appends a review to an internal business.
func (r *PGXReviewsRepository) CreateForBusiness(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if review == nil {
		return nil, fmt.Errorf("review payload is nil")
	}
	businessID, err := uuid.Parse(review.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("parse business id: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO reviews (business_id, author_name, author_id, rating, comment)
        VALUES ($1, $2, $3::uuid, $4, $5)
        RETURNING id::text, business_id::text, author_name, author_id::text, rating, comment, created_at
    `, businessID, review.AuthorName, stringOrNil(review.AuthorID), review.Rating, review.Comment)

	created, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return created, nil
}

// ListByPlace returns internal reviews keyed by an external place id, newest first.
func (r *PGXReviewsRepository) ListByPlace(ctx context.Context, placeID string) ([]entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id::text, place_id, author_name, author_id::text, rating, comment, created_at
        FROM place_reviews
        WHERE place_id = $1
        ORDER BY created_at DESC
    `, placeID)
	if err != nil {
		return nil, fmt.Errorf("list place reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// CreateForPlace appends a review to an external place.
func (r *PGXReviewsRepository) CreateForPlace(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if review == nil {
		return nil, fmt.Errorf("review payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO place_reviews (place_id, author_name, author_id, rating, comment)
        VALUES ($1, $2, $3::uuid, $4, $5)
        RETURNING id::text, place_id, author_name, author_id::text, rating, comment, created_at
    `, review.BusinessID, review.AuthorName, stringOrNil(review.AuthorID), review.Rating, review.Comment)

	created, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("insert place review: %w", err)
	}
	return created, nil
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var (
		review   entity.Review
		authorID sql.NullString
	)
	if err := row.Scan(
		&review.ID,
		&review.BusinessID,
		&review.AuthorName,
		&authorID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	); err != nil {
		return nil, err
	}
	review.AuthorID = nullStringToPtr(authorID)
	return &review, nil
}

func scanReviews(rows pgx.Rows) ([]entity.Review, error) {
	reviews := []entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
