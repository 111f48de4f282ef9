package format

import "testing"

func TestFormatSSN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "full", in: "123456789", want: "123-45-6789"},
		{name: "already formatted", in: "123-45-6789", want: "123-45-6789"},
		{name: "partial three", in: "123", want: "123"},
		{name: "partial four", in: "1234", want: "123-4"},
		{name: "partial six", in: "123456", want: "123-45-6"},
		{name: "junk interleaved", in: "12a3b45c6789", want: "123-45-6789"},
		{name: "overflow truncated", in: "1234567890123", want: "123-45-6789"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatSSN(tc.in); got != tc.want {
				t.Fatalf("FormatSSN(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMaskSSN(t *testing.T) {
	if got := MaskSSN("123-45-6789", false); got != "XXX-XX-6789" {
		t.Fatalf("unfocused mask = %q, want XXX-XX-6789", got)
	}
	if got := MaskSSN("123-45-6789", true); got != "123-45-6789" {
		t.Fatalf("focused mask = %q, want full value", got)
	}
	// Incomplete values are never masked; there is nothing to hide yet.
	if got := MaskSSN("12345", false); got != "123-45" {
		t.Fatalf("partial mask = %q, want 123-45", got)
	}
}

func TestFormatEIN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "full", in: "123456789", want: "12-3456789"},
		{name: "overflow truncated", in: "12345678901", want: "12-3456789"},
		{name: "partial", in: "123", want: "12-3"},
		{name: "two digits", in: "12", want: "12"},
		{name: "junk", in: "ab-12cd34", want: "12-34"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatEIN(tc.in); got != tc.want {
				t.Fatalf("FormatEIN(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "full", in: "2125551234", want: "212-555-1234"},
		{name: "punctuated", in: "(212) 555-1234", want: "212-555-1234"},
		{name: "partial", in: "21255", want: "212-55"},
		{name: "overflow truncated", in: "212555123499", want: "212-555-1234"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatPhone(tc.in); got != tc.want {
				t.Fatalf("FormatPhone(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{name: "valid", in: "212-555-1234", valid: true},
		{name: "valid raw digits", in: "2125551234", valid: true},
		{name: "area code leading one", in: "112-555-1234", valid: false},
		{name: "area code leading zero", in: "012-555-1234", valid: false},
		{name: "too short", in: "212-555-123", valid: false},
		{name: "empty", in: "", valid: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidatePhone(tc.in); got.Valid != tc.valid {
				t.Fatalf("ValidatePhone(%q).Valid = %v, want %v (%s)", tc.in, got.Valid, tc.valid, got.Message)
			}
		})
	}
}

func TestValidateRoutingNumber(t *testing.T) {
	cfg := NewBankConfig()

	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{name: "valid", in: "021000021", valid: true},
		{name: "too short", in: "02100002", valid: false},
		{name: "all same digit", in: "111111111", valid: false},
		{name: "non numeric", in: "02100002a", valid: false},
		{name: "empty", in: "", valid: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := cfg.ValidateRoutingNumber(tc.in); got.Valid != tc.valid {
				t.Fatalf("ValidateRoutingNumber(%q).Valid = %v, want %v", tc.in, got.Valid, tc.valid)
			}
		})
	}
}

func TestValidateAccountNumberBounds(t *testing.T) {
	cfg := NewBankConfig(WithAccountLengthBounds(6, 10))

	if got := cfg.ValidateAccountNumber("12345"); got.Valid {
		t.Fatal("expected 5 digit account to fail with min 6")
	}
	if got := cfg.ValidateAccountNumber("123456"); !got.Valid {
		t.Fatalf("expected 6 digit account to pass: %s", got.Message)
	}
	if got := cfg.ValidateAccountNumber("12345678901"); got.Valid {
		t.Fatal("expected 11 digit account to fail with max 10")
	}
}

func TestValidateZIP(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{name: "five digit", in: "10001", valid: true},
		{name: "zip plus four", in: "10001-1234", valid: true},
		{name: "four digit", in: "1000", valid: false},
		{name: "plus three", in: "10001-123", valid: false},
		{name: "letters", in: "1000a", valid: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateZIP(tc.in); got.Valid != tc.valid {
				t.Fatalf("ValidateZIP(%q).Valid = %v, want %v", tc.in, got.Valid, tc.valid)
			}
		})
	}
}
