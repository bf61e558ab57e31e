package questionnaire

import (
	"fmt"
	"strings"
	"unicode"

	"recruiter-platform/internal/domain"
)

const maxOptionSuffix = 50

// Slug lower-cases s and joins its alphanumeric runs with underscores.
func Slug(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// NormalizeOptionNames fills in and de-duplicates option names within one
// question. Blank names derive from the label; generic option_/opt_ names
// are scoped under the question name.
func NormalizeOptionNames(questionName string, options []domain.QuestionnaireOption) error {
	used := make(map[string]struct{}, len(options))
	for i := range options {
		name := strings.TrimSpace(options[i].Name)
		lower := strings.ToLower(name)
		switch {
		case name == "":
			name = questionName + "_" + Slug(options[i].Label)
		case strings.HasPrefix(lower, "option_") || strings.HasPrefix(lower, "opt_"):
			name = questionName + "_" + name
		}

		unique, err := uniqueName(name, used)
		if err != nil {
			return fmt.Errorf("question %q: %w", questionName, err)
		}
		used[unique] = struct{}{}
		options[i].Name = unique
	}
	return nil
}

func uniqueName(name string, used map[string]struct{}) (string, error) {
	if _, taken := used[name]; !taken {
		return name, nil
	}
	for n := 2; n <= maxOptionSuffix; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if _, taken := used[candidate]; !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many options named %q", name)
}
