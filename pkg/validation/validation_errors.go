package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single user-facing validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"MaxAmountOfCandidatesRestriction": "Max amount of candidates",
	"MinimumRequirements":              "Minimum requirements",
	"JobTitle":                         "Job title",
	"JobDescription":                   "Job description",
	"OriginCountryCode":                "Origin country",
	"InstructionPromptName":            "Instruction prompt",
	"PersonalityPromptName":            "Personality prompt",
	"QuestionsPromptName":              "Questions prompt",
	"EntityTypeName":                   "Entity type",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{Field: e.Field(), Message: formatSingleError(e)})
	}
	return out
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must not exceed %s characters", label, param)
		}
		return fmt.Sprintf("%s must not exceed %s", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s is not a valid id", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, digits, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits with an optional leading +", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)
	case "country_code":
		return fmt.Sprintf("%s must be a two-letter upper-case country code", label)
	case "experience_level":
		return fmt.Sprintf("%s must be one of: Entry, Mid, Senior, Lead, Executive", label)
	case "job_type":
		return fmt.Sprintf("%s must be one of: FullTime, PartTime, Contract, Internship", label)
	case "sync_scope":
		return fmt.Sprintf("%s must be one of: GlobalSanitized, EUOnly, ScopedByExposure", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
