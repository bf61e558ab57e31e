package usecase

import (
	"context"
	"errors"
	"strings"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/google/uuid"
)

type countryUsecase struct {
	countries domain.CountryRepository
	sets      domain.CountryExposureSetRepository
}

func NewCountryUsecase(countries domain.CountryRepository, sets domain.CountryExposureSetRepository) domain.CountryUsecase {
	return &countryUsecase{countries: countries, sets: sets}
}

func (u *countryUsecase) ListCountries(ctx context.Context) ([]domain.Country, error) {
	return u.countries.List(ctx)
}

func (u *countryUsecase) GetCountry(ctx context.Context, code string) (*domain.Country, error) {
	c, err := u.countries.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Country not found")
		}
		return nil, err
	}
	return c, nil
}

// GetOrCreateExposureSet returns nil for an empty list. Equal sets always map
// to the same id, so concurrent callers converge on one row.
func (u *countryUsecase) GetOrCreateExposureSet(ctx context.Context, codes []string) (*domain.CountryExposureSet, error) {
	set := domain.NewCountryExposureSet(codes)
	if set == nil {
		return nil, nil
	}
	if err := u.sets.Ensure(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (u *countryUsecase) GetExposureSet(ctx context.Context, id uuid.UUID) (*domain.CountryExposureSet, error) {
	set, err := u.sets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Country exposure set not found")
		}
		return nil, err
	}
	return set, nil
}
