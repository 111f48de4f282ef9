package format

const ssnLength = 9

// FormatSSN normalises raw input into the storage format XXX-XX-XXXX,
// grouping progressively as digits are typed. Input beyond nine digits is
// truncated.
func FormatSSN(raw string) string {
	digits := Digits(raw)
	if len(digits) > ssnLength {
		digits = digits[:ssnLength]
	}
	return group(digits, 3, 2, 4)
}

// MaskSSN renders the display value for an SSN field. While the field is
// focused the full formatted value is shown; otherwise everything but the
// last four digits is replaced with X placeholders. The stored value is
// always the unmasked FormatSSN output.
func MaskSSN(value string, focused bool) string {
	formatted := FormatSSN(value)
	if focused {
		return formatted
	}
	digits := Digits(value)
	if len(digits) < ssnLength {
		return formatted
	}
	return "XXX-XX-" + digits[len(digits)-4:]
}

// ValidateSSN accepts exactly nine digits, rejecting all-identical sequences.
func ValidateSSN(value string) Result {
	digits := Digits(value)
	if len(digits) != ssnLength {
		return fail("Social Security Number must have 9 digits")
	}
	if allSameDigit(digits) {
		return fail("Social Security Number is not valid")
	}
	return ok()
}
