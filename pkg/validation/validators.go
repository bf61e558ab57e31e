package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Allow letters, numbers, spaces, and common professional punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),_-]+$`)

	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

var (
	experienceLevels = map[string]bool{"Entry": true, "Mid": true, "Senior": true, "Lead": true, "Executive": true}
	jobTypes         = map[string]bool{"FullTime": true, "PartTime": true, "Contract": true, "Internship": true}
	syncScopes       = map[string]bool{"GlobalSanitized": true, "EUOnly": true, "ScopedByExposure": true}
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("country_code", CountryCode)
	_ = v.RegisterValidation("experience_level", enumOf(experienceLevels))
	_ = v.RegisterValidation("job_type", enumOf(jobTypes))
	_ = v.RegisterValidation("sync_scope", enumOf(syncScopes))
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// CountryCode accepts ISO 3166 alpha-2 codes in upper case.
func CountryCode(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return countryCodeRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

func enumOf(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		return allowed[val]
	}
}
