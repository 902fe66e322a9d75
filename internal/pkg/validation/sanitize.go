package validation

import (
	"html"
	"regexp"
	"strings"

	"github.com/sigescol/backend/internal/pkg/apperrors"
)

// MaxSanitizedLength bounds any sanitized string value
const MaxSanitizedLength = 255

// maliciousPatterns is the script/SQL-injection blacklist applied to raw input
var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
	regexp.MustCompile(`(?i)union.*select`),
	regexp.MustCompile(`(?i)drop.*table`),
	regexp.MustCompile(`(?i)delete.*from`),
	regexp.MustCompile(`(?i)insert.*into`),
}

// SanitizeString trims a value, rejects it if any blacklist pattern matches,
// then HTML-escapes and truncates it. Returns apperrors.ErrMaliciousInput on
// a blacklist match. The blacklist runs on the raw value, before escaping can
// mask tag-based patterns.
func SanitizeString(value string) (string, error) {
	value = strings.TrimSpace(value)

	for _, pattern := range maliciousPatterns {
		if pattern.MatchString(value) {
			return "", apperrors.ErrMaliciousInput
		}
	}

	value = html.EscapeString(value)

	if len(value) > MaxSanitizedLength {
		value = value[:MaxSanitizedLength]
	}

	return value, nil
}
