package predicate

import "testing"

func TestEval(t *testing.T) {
	eval := New()
	ctx := Context{
		Values: map[string]any{
			"paymentMethod":       "directDeposit",
			"isPayee":             true,
			"allocationShare":     50.0,
			"owners[0].fullName":  "Ada",
			"address":             map[string]any{"state": "NY"},
			"notes":               "",
			"beneficialOwnerType": "individual",
		},
		Extras: map[string]any{
			"recordIndex": 2,
		},
	}

	cases := []struct {
		name string
		rule string
		want bool
	}{
		{name: "empty rule is true", rule: "", want: true},
		{name: "string equality", rule: `paymentMethod == "directDeposit"`, want: true},
		{name: "string inequality", rule: `paymentMethod != "check"`, want: true},
		{name: "bool truthy", rule: "isPayee", want: true},
		{name: "bool compare", rule: "isPayee == true", want: true},
		{name: "number compare", rule: "allocationShare == 50", want: true},
		{name: "missing value falsy", rule: "missingField", want: false},
		{name: "missing equals null", rule: "missingField == null", want: true},
		{name: "empty string falsy", rule: "notes", want: false},
		{name: "flat dotted key", rule: `owners[0].fullName == "Ada"`, want: true},
		{name: "nested traversal", rule: `address.state == "NY"`, want: true},
		{name: "extras prefix", rule: "extras.recordIndex == 2", want: true},
		{name: "and", rule: `isPayee && paymentMethod == "directDeposit"`, want: true},
		{name: "and short circuit", rule: `notes && paymentMethod == "directDeposit"`, want: false},
		{name: "or", rule: `notes || isPayee`, want: true},
		{name: "not", rule: "!notes", want: true},
		{name: "parens", rule: `(notes || isPayee) && beneficialOwnerType == individual`, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := eval.Eval(tc.rule, ctx)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tc.rule, err)
			}
			if got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	eval := New()

	cases := []struct {
		name string
		rule string
	}{
		{name: "single equals", rule: "a = b"},
		{name: "single ampersand", rule: "a & b"},
		{name: "unterminated string", rule: `a == "oops`},
		{name: "dangling operator", rule: "a =="},
		{name: "missing close paren", rule: "(a || b"},
		{name: "trailing garbage", rule: "a == 1 b"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := eval.Eval(tc.rule, Context{}); err == nil {
				t.Fatalf("Eval(%q): expected error", tc.rule)
			}
		})
	}
}
