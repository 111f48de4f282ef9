package format

const einLength = 9

// FormatEIN normalises raw input into XX-XXXXXXX, inserting the hyphen after
// the second digit once enough digits are present. Input beyond nine digits
// is truncated before formatting.
func FormatEIN(raw string) string {
	digits := Digits(raw)
	if len(digits) > einLength {
		digits = digits[:einLength]
	}
	return group(digits, 2, 7)
}

// MaskEIN renders an EIN for display, hiding the serial portion unless the
// field is focused.
func MaskEIN(value string, focused bool) string {
	formatted := FormatEIN(value)
	if focused {
		return formatted
	}
	digits := Digits(value)
	if len(digits) < einLength {
		return formatted
	}
	return "XX-XXX" + digits[len(digits)-4:]
}

// ValidateEIN accepts exactly nine digits.
func ValidateEIN(value string) Result {
	digits := Digits(value)
	if len(digits) != einLength {
		return fail("EIN must have 9 digits")
	}
	return ok()
}
