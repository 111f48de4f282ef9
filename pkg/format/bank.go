package format

import "fmt"

// BankConfig carries the length thresholds for routing and account number
// validation. Defaults match the US ACH conventions but the numbers are
// configuration, not engine behaviour.
type BankConfig struct {
	RoutingLength    int
	AccountMinLength int
	AccountMaxLength int
}

// BankOption customises a BankConfig.
type BankOption func(*BankConfig)

// WithRoutingLength overrides the required routing number length.
func WithRoutingLength(length int) BankOption {
	return func(c *BankConfig) {
		c.RoutingLength = length
	}
}

// WithAccountLengthBounds overrides the inclusive account number length range.
func WithAccountLengthBounds(min, max int) BankOption {
	return func(c *BankConfig) {
		c.AccountMinLength = min
		c.AccountMaxLength = max
	}
}

// NewBankConfig builds a BankConfig with defaults applied.
func NewBankConfig(options ...BankOption) BankConfig {
	cfg := BankConfig{
		RoutingLength:    9,
		AccountMinLength: 4,
		AccountMaxLength: 17,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// ValidateRoutingNumber requires a digit-only value of the configured length
// and rejects all-identical-digit sequences.
func (c BankConfig) ValidateRoutingNumber(value string) Result {
	if value == "" || Digits(value) != value {
		return fail("Routing number must contain only digits")
	}
	if len(value) != c.RoutingLength {
		return fail(fmt.Sprintf("Routing number must have %d digits", c.RoutingLength))
	}
	if allSameDigit(value) {
		return fail("Routing number is not valid")
	}
	return ok()
}

// ValidateAccountNumber requires a digit-only value within the configured
// length bounds and rejects all-identical-digit sequences.
func (c BankConfig) ValidateAccountNumber(value string) Result {
	if value == "" || Digits(value) != value {
		return fail("Account number must contain only digits")
	}
	if len(value) < c.AccountMinLength || len(value) > c.AccountMaxLength {
		return fail(fmt.Sprintf("Account number must have between %d and %d digits", c.AccountMinLength, c.AccountMaxLength))
	}
	if allSameDigit(value) {
		return fail("Account number is not valid")
	}
	return ok()
}
