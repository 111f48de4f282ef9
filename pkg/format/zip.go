package format

import "regexp"

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// FormatZIP strips non-digits and renders a 5-digit ZIP or ZIP+4 with the
// hyphen inserted after the fifth digit. Input beyond nine digits is
// truncated.
func FormatZIP(raw string) string {
	digits := Digits(raw)
	if len(digits) > 9 {
		digits = digits[:9]
	}
	return group(digits, 5, 4)
}

// ValidateZIP accepts a 5-digit ZIP or a ZIP+4.
func ValidateZIP(value string) Result {
	if !zipPattern.MatchString(value) {
		return fail("Enter a valid ZIP code")
	}
	return ok()
}
