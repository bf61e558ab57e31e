package domain

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
	GdprSyncFields
}

// CountryExposureSet is a deduplicated set of countries a row is exposed to.
// Its ID is derived from the canonical key so equal sets share one row.
type CountryExposureSet struct {
	ID           uuid.UUID `json:"id"`
	CanonicalKey string    `json:"canonical_key"`
	CountryCodes []string  `json:"country_codes"`
	CreatedAt    time.Time `json:"created_at"`
}

var exposureSetNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("recruiter-platform/country-exposure-set"))

// CanonicalizeCountryCodes trims, upper-cases, dedupes and sorts codes.
func CanonicalizeCountryCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NewCountryExposureSet returns nil when no usable code is given.
func NewCountryExposureSet(codes []string) *CountryExposureSet {
	canonical := CanonicalizeCountryCodes(codes)
	if len(canonical) == 0 {
		return nil
	}
	key := strings.Join(canonical, ",")
	return &CountryExposureSet{
		ID:           uuid.NewSHA1(exposureSetNamespace, []byte(key)),
		CanonicalKey: key,
		CountryCodes: canonical,
	}
}

type CountryRepository interface {
	List(ctx context.Context) ([]Country, error)
	GetByCode(ctx context.Context, code string) (*Country, error)
}

type CountryExposureSetRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CountryExposureSet, error)
	// Ensure inserts the set if absent and is a no-op otherwise.
	Ensure(ctx context.Context, set *CountryExposureSet) error
}

type CountryUsecase interface {
	ListCountries(ctx context.Context) ([]Country, error)
	GetCountry(ctx context.Context, code string) (*Country, error)
	GetOrCreateExposureSet(ctx context.Context, codes []string) (*CountryExposureSet, error)
	GetExposureSet(ctx context.Context, id uuid.UUID) (*CountryExposureSet, error)
}

// IDPtr returns nil for a nil set.
func (s *CountryExposureSet) IDPtr() *uuid.UUID {
	if s == nil {
		return nil
	}
	id := s.ID
	return &id
}
