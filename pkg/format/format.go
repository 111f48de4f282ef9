package format

import "strings"

// Result is the outcome of a validator. Message is only meaningful when Valid
// is false.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result {
	return Result{Valid: true}
}

func fail(message string) Result {
	return Result{Message: message}
}

// Digits strips every non-digit rune from the input.
func Digits(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func allSameDigit(digits string) bool {
	if len(digits) < 2 {
		return false
	}
	first := digits[0]
	for i := 1; i < len(digits); i++ {
		if digits[i] != first {
			return false
		}
	}
	return true
}

// group joins digit runs with hyphens, consuming widths left to right until
// the digits run out. Used by the progressive phone/SSN/EIN formatters.
func group(digits string, widths ...int) string {
	if digits == "" {
		return ""
	}
	var parts []string
	for _, width := range widths {
		if len(digits) == 0 {
			break
		}
		if len(digits) <= width {
			parts = append(parts, digits)
			digits = ""
			break
		}
		parts = append(parts, digits[:width])
		digits = digits[width:]
	}
	return strings.Join(parts, "-")
}
