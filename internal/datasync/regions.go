package datasync

import (
	"fmt"
	"sort"
	"strings"

	"recruiter-platform/internal/domain"
)

// CentralRegion aggregates data from every other region.
const CentralRegion = "EU-MAIN"

// euEEACountries lists EU member states plus the EEA countries.
var euEEACountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {}, "EE": {}, "FI": {},
	"FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {}, "IT": {}, "LV": {}, "LT": {}, "LU": {},
	"MT": {}, "NL": {}, "PL": {}, "PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
	"IS": {}, "LI": {}, "NO": {},
}

// RegionConfig maps region names to their database DSN and to the countries
// they serve. Region names keep the case they were configured with.
type RegionConfig struct {
	dsns      map[string]string
	countries map[string][]string
}

// NewRegionConfig copies the given maps. countries may be nil.
func NewRegionConfig(dsns map[string]string, countries map[string][]string) RegionConfig {
	rc := RegionConfig{
		dsns:      make(map[string]string, len(dsns)),
		countries: make(map[string][]string, len(countries)),
	}
	for k, v := range dsns {
		rc.dsns[k] = v
	}
	for k, v := range countries {
		rc.countries[k] = domain.CanonicalizeCountryCodes(v)
	}
	return rc
}

// ParseRegionConfig reads "EU=dsn;US=dsn" and "US=US,CA;EU=DE,FR" specs.
func ParseRegionConfig(dsnSpec, countrySpec string) (RegionConfig, error) {
	dsns, err := parsePairs(dsnSpec)
	if err != nil {
		return RegionConfig{}, fmt.Errorf("parse region DSNs: %w", err)
	}
	raw, err := parsePairs(countrySpec)
	if err != nil {
		return RegionConfig{}, fmt.Errorf("parse region countries: %w", err)
	}
	countries := make(map[string][]string, len(raw))
	for region, list := range raw {
		countries[region] = strings.Split(list, ",")
	}
	return NewRegionConfig(dsns, countries), nil
}

func parsePairs(spec string) (map[string]string, error) {
	out := map[string]string{}
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// DSNs contain '=' themselves, so only the first one separates.
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid entry %q", part)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// AllRegions returns every configured region name, sorted.
func (rc RegionConfig) AllRegions() []string {
	out := make([]string, 0, len(rc.dsns))
	for name := range rc.dsns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ConnectionString looks a region up case-insensitively.
func (rc RegionConfig) ConnectionString(region string) (string, bool) {
	if dsn, ok := rc.dsns[region]; ok && dsn != "" {
		return dsn, true
	}
	for name, dsn := range rc.dsns {
		if strings.EqualFold(name, region) && dsn != "" {
			return dsn, true
		}
	}
	return "", false
}

// RegionsForCountry returns the sorted regions that serve code.
func (rc RegionConfig) RegionsForCountry(code string) []string {
	code = strings.ToUpper(strings.TrimSpace(code))
	var out []string
	for region, codes := range rc.countries {
		for _, c := range codes {
			if c == code {
				out = append(out, region)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// ResidencyForCountry is EU for EU/EEA members and NonEU otherwise.
func ResidencyForCountry(code string) domain.DataResidency {
	if _, ok := euEEACountries[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return domain.DataResidencyEU
	}
	return domain.DataResidencyNonEU
}

// ResidencyForRegion treats EU and any EU-prefixed region as EU resident.
func ResidencyForRegion(region string) domain.DataResidency {
	r := strings.ToUpper(region)
	if r == "EU" || strings.HasPrefix(r, "EU-") {
		return domain.DataResidencyEU
	}
	return domain.DataResidencyNonEU
}
