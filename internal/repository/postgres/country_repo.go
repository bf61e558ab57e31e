package postgres

import (
	"context"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type countryRepo struct {
	db *pgxpool.Pool
}

func NewCountryRepository(db *pgxpool.Pool) domain.CountryRepository {
	return &countryRepo{db: db}
}

const countryColumns = `id, name, region, ` + gdprColumns

func scanCountry(row interface{ Scan(...any) error }) (*domain.Country, error) {
	var c domain.Country
	if err := row.Scan(fields([]any{&c.Code, &c.Name, &c.Region}, gdprDest(&c.GdprSyncFields))...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *countryRepo) List(ctx context.Context) ([]domain.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT `+countryColumns+` FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := []domain.Country{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		countries = append(countries, *c)
	}
	return countries, rows.Err()
}

func (r *countryRepo) GetByCode(ctx context.Context, code string) (*domain.Country, error) {
	c, err := scanCountry(r.db.QueryRow(ctx, `SELECT `+countryColumns+` FROM countries WHERE id = upper($1)`, code))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

type exposureSetRepo struct {
	db *pgxpool.Pool
}

func NewCountryExposureSetRepository(db *pgxpool.Pool) domain.CountryExposureSetRepository {
	return &exposureSetRepo{db: db}
}

func (r *exposureSetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CountryExposureSet, error) {
	var set domain.CountryExposureSet
	err := r.db.QueryRow(ctx,
		`SELECT id, canonical_key, country_codes, created_at FROM country_exposure_sets WHERE id = $1`, id,
	).Scan(&set.ID, &set.CanonicalKey, &set.CountryCodes, &set.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &set, nil
}

// Ensure relies on the deterministic id: concurrent callers insert the same row.
func (r *exposureSetRepo) Ensure(ctx context.Context, set *domain.CountryExposureSet) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO country_exposure_sets (id, canonical_key, country_codes, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET canonical_key = EXCLUDED.canonical_key
		RETURNING created_at`,
		set.ID, set.CanonicalKey, set.CountryCodes,
	).Scan(&set.CreatedAt)
	return mapError(err)
}
