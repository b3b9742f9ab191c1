package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/geo"
)

var (
	// ErrBusinessNotFound is returned when no business matches the id.
	ErrBusinessNotFound = errors.New("business not found")
	// ErrBusinessConflict is returned when a listing collides with an existing one.
	ErrBusinessConflict = errors.New("business already exists")
)

// NearbyFilter parameterises the geospatial lookup.
type NearbyFilter struct {
	Center       geo.Coordinate
	RadiusMeters float64
	// Category filters by exact match when non-empty.
	Category string
	Limit    int
}

// BusinessesRepository describes persistence operations for internal listings.
type BusinessesRepository interface {
	Nearby(ctx context.Context, filter NearbyFilter) ([]entity.Business, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	Create(ctx context.Context, business *entity.Business) (*entity.Business, error)
	Update(ctx context.Context, business *entity.Business) (*entity.Business, error)
	BulkUpsert(ctx context.Context, records []BulkUpsertBusinessInput) (BulkUpsertResult, error)
}

// BulkUpsertBusinessInput represents one row of a CSV import.
type BulkUpsertBusinessInput struct {
	OwnerID     uuid.UUID
	Name        string
	Category    string
	Description *string
	Address     string
	Phone       *string
	Website     *string
	Latitude    float64
	Longitude   float64
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

// PGXBusinessesRepository implements BusinessesRepository on PostGIS.
type PGXBusinessesRepository struct {
	pool pgxPool
}

// NewPGXBusinessesRepository wires a pgx backed repository.
func NewPGXBusinessesRepository(pool *pgxpool.Pool) *PGXBusinessesRepository {
	return &PGXBusinessesRepository{pool: pool}
}

// Points are stored longitude first: ST_MakePoint(lng, lat).
const businessColumns = `
            id,
            owner_id,
            name,
            category,
            description,
            address,
            phone,
            website,
            photos,
            ST_X(location::geometry) AS longitude,
            ST_Y(location::geometry) AS latitude,
            external_place_id,
            created_at,
            updated_at`

// Nearby returns businesses within the radius ordered by distance from the center.
func (r *PGXBusinessesRepository) Nearby(ctx context.Context, filter NearbyFilter) ([]entity.Business, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	args := []any{filter.Center.Lng, filter.Center.Lat, filter.RadiusMeters}
	query := `
        SELECT` + businessColumns + `
        FROM businesses
        WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1::float8, $2::float8), 4326)::geography, $3::float8)`
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
        ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1::float8, $2::float8), 4326)::geography) ASC, name ASC
        LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nearby businesses: %w", err)
	}
	defer rows.Close()

	var businesses []entity.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *business)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nearby businesses: %w", err)
	}
	return businesses, nil
}

// GetByID fetches a single business.
func (r *PGXBusinessesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+businessColumns+` FROM businesses WHERE id = $1`, id)
	business, err := scanBusiness(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// Create inserts a new listing and returns the stored row.
func (r *PGXBusinessesRepository) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if business == nil {
		return nil, fmt.Errorf("business payload is nil")
	}

	query := `
        INSERT INTO businesses (
            owner_id,
            name,
            category,
            description,
            address,
            phone,
            website,
            photos,
            location,
            external_place_id
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8,
            ST_SetSRID(ST_MakePoint($9::float8, $10::float8), 4326)::geography,
            $11
        )
        RETURNING` + businessColumns

	row := r.pool.QueryRow(ctx, query,
		business.OwnerID,
		business.Name,
		business.Category,
		stringOrNil(business.Description),
		business.Address,
		stringOrNil(business.Phone),
		stringOrNil(business.Website),
		stringSliceOrEmpty(business.Photos),
		business.Longitude,
		business.Latitude,
		stringOrNil(business.ExternalPlaceID),
	)
	created, err := scanBusiness(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrBusinessConflict, err)
		}
		return nil, fmt.Errorf("insert business: %w", err)
	}
	return created, nil
}

// Update overwrites the mutable fields of an existing listing.
func (r *PGXBusinessesRepository) Update(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if business == nil {
		return nil, fmt.Errorf("business payload is nil")
	}

	query := `
        UPDATE businesses SET
            name = $2,
            category = $3,
            description = $4,
            address = $5,
            phone = $6,
            website = $7,
            photos = $8,
            location = ST_SetSRID(ST_MakePoint($9::float8, $10::float8), 4326)::geography,
            external_place_id = $11,
            updated_at = NOW()
        WHERE id = $1
        RETURNING` + businessColumns

	row := r.pool.QueryRow(ctx, query,
		business.ID,
		business.Name,
		business.Category,
		stringOrNil(business.Description),
		business.Address,
		stringOrNil(business.Phone),
		stringOrNil(business.Website),
		stringSliceOrEmpty(business.Photos),
		business.Longitude,
		business.Latitude,
		stringOrNil(business.ExternalPlaceID),
	)
	updated, err := scanBusiness(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrBusinessConflict, err)
		}
		return nil, fmt.Errorf("update business: %w", err)
	}
	return updated, nil
}

const bulkUpsertSQL = `
        INSERT INTO businesses (owner_id, name, category, description, address, phone, website, location, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,ST_SetSRID(ST_MakePoint($8::float8, $9::float8), 4326)::geography,NOW())
        ON CONFLICT (owner_id, name, address) DO UPDATE SET
            category = EXCLUDED.category,
            description = EXCLUDED.description,
            phone = EXCLUDED.phone,
            website = EXCLUDED.website,
            location = EXCLUDED.location,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsert persists a batch of listings idempotently, keyed by owner, name and address.
func (r *PGXBusinessesRepository) BulkUpsert(ctx context.Context, records []BulkUpsertBusinessInput) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		var inserted bool
		err := tx.QueryRow(ctx, bulkUpsertSQL,
			record.OwnerID,
			record.Name,
			record.Category,
			stringOrNil(record.Description),
			record.Address,
			stringOrNil(record.Phone),
			stringOrNil(record.Website),
			record.Longitude,
			record.Latitude,
		).Scan(&inserted)
		if err != nil {
			return result, fmt.Errorf("bulk upsert business %q: %w", record.Name, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var (
		b               entity.Business
		description     sql.NullString
		phone           sql.NullString
		website         sql.NullString
		photos          []string
		externalPlaceID sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Category,
		&description,
		&b.Address,
		&phone,
		&website,
		&photos,
		&b.Longitude,
		&b.Latitude,
		&externalPlaceID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}

	b.Description = nullStringToPtr(description)
	b.Phone = nullStringToPtr(phone)
	b.Website = nullStringToPtr(website)
	b.ExternalPlaceID = nullStringToPtr(externalPlaceID)
	b.Photos = stringSliceOrEmpty(photos)

	return &b, nil
}
