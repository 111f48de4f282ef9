package format

import "regexp"

const phoneLength = 10

// US number: the area code and exchange cannot start with 0 or 1.
var phonePattern = regexp.MustCompile(`^[2-9]\d{2}-[2-9]\d{2}-\d{4}$`)

// FormatPhone strips non-digits and groups them as NNN-NNN-NNNN progressively
// as digits are typed. Input beyond ten digits is truncated.
func FormatPhone(raw string) string {
	digits := Digits(raw)
	if len(digits) > phoneLength {
		digits = digits[:phoneLength]
	}
	return group(digits, 3, 3, 4)
}

// ValidatePhone requires a complete, US-pattern phone number.
func ValidatePhone(value string) Result {
	if !phonePattern.MatchString(FormatPhone(value)) {
		return fail("Enter a valid 10 digit phone number")
	}
	return ok()
}
