package phone

import (
	"regexp"
	"strings"

	"whatsapp-campaign-engine/internal/domain"
)

// countryPattern matches a full canonical number for one market: country
// calling code followed by a plausible mobile subscriber number.
type countryPattern struct {
	code string
	re   *regexp.Regexp
}

// Patterns for the markets the contact lists carry. Order matters only for
// overlapping prefixes (none today).
var countryPatterns = []countryPattern{
	{"971", regexp.MustCompile(`^9715\d{8}$`)},            // UAE mobile
	{"966", regexp.MustCompile(`^9665\d{8}$`)},            // Saudi Arabia
	{"20", regexp.MustCompile(`^20(10|11|12|15)\d{8}$`)},  // Egypt
	{"91", regexp.MustCompile(`^91[6-9]\d{9}$`)},          // India
	{"44", regexp.MustCompile(`^447\d{9}$`)},              // UK mobile
	{"1", regexp.MustCompile(`^1[2-9]\d{2}[2-9]\d{6}$`)},  // US / Canada
}

// formatting strips the characters people paste along with numbers.
var formatting = strings.NewReplacer(
	" ", "", "-", "", ".", "", "(", "", ")", "", "+", "", "\t", "",
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Validator normalizes raw contact identifiers into canonical international
// format. Numbers without a country code are assumed to belong to the
// default country.
type Validator struct {
	defaultCode string
}

// NewValidator creates a Validator. defaultCode is the calling code applied
// to local-format numbers, e.g. "971".
func NewValidator(defaultCode string) *Validator {
	return &Validator{defaultCode: defaultCode}
}

// Normalize strips formatting, resolves local-format input against the
// default country, and validates the result against the country pattern
// table. It is idempotent: normalizing an already-canonical number returns
// it unchanged. Returns domain.ErrInvalidNumber for anything that does not
// match a known pattern.
func (v *Validator) Normalize(raw string) (domain.CanonicalNumber, error) {
	s := formatting.Replace(strings.TrimSpace(raw))
	if s == "" || !digitsOnly.MatchString(s) {
		return "", domain.ErrInvalidNumber
	}

	// International prefix written as 00 instead of +.
	s = strings.TrimPrefix(s, "00")

	if n, ok := match(s); ok {
		return n, nil
	}

	// Local format: drop the trunk zero and apply the default country code.
	local := strings.TrimPrefix(s, "0")
	if n, ok := match(v.defaultCode + local); ok {
		return n, nil
	}

	return "", domain.ErrInvalidNumber
}

func match(s string) (domain.CanonicalNumber, bool) {
	for _, p := range countryPatterns {
		if strings.HasPrefix(s, p.code) && p.re.MatchString(s) {
			return domain.CanonicalNumber(s), true
		}
	}
	return "", false
}
