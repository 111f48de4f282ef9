// Package predicate evaluates the small rule expressions attached to field
// descriptors (requiredIf / visibleIf). Rules read values from the current
// form state with dot-path traversal, so "paymentMethod == 'directDeposit'"
// or "owners[0].isPayee" work against the same value map the validation
// engine sees.
//
// Supported grammar: truthy identifier checks, == / != comparisons against
// string, number, bool and null literals, ! negation, && / || composition,
// and parentheses.
package predicate

import (
	"errors"
	"strings"
)

// Context provides the inputs a rule can reference. Values holds the form
// state keyed by dotted field path; Extras allows callers to inject
// out-of-band context such as the record index under evaluation.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// Evaluator parses and evaluates rule strings. The zero value is usable.
type Evaluator struct{}

// New returns a ready Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval evaluates the rule against the context. An empty rule is true.
func (e *Evaluator) Eval(rule string, ctx Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	tokens, err := scan(trimmed)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return true, nil
	}

	node, err := parse(tokens)
	if err != nil {
		return false, err
	}
	return node.eval(ctx)
}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func scan(input string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(input); {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenNot, raw: "!"})
				i++
			}
		case ch == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, errors.New("predicate: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, errors.New("predicate: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, errors.New("predicate: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			value, width, err := scanString(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i += width
		default:
			raw, width := scanWord(input[i:])
			if raw == "" {
				i++
				continue
			}
			tokens = append(tokens, classifyWord(raw))
			i += width
		}
	}

	return tokens, nil
}

func scanString(input string) (string, int, error) {
	quote := input[0]
	var builder strings.Builder
	escaped := false
	for i := 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			builder.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == quote {
			return builder.String(), i + 1, nil
		}
		builder.WriteByte(c)
	}
	return "", 0, errors.New("predicate: unterminated string literal")
}

func scanWord(input string) (string, int) {
	i := 0
	for i < len(input) {
		c := input[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
			c == '(' || c == ')' || c == '!' || c == '=' || c == '&' || c == '|' {
			break
		}
		i++
	}
	return strings.TrimSpace(input[:i]), i
}

func classifyWord(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if c := raw[0]; (c >= '0' && c <= '9') || c == '-' || c == '+' {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdent, raw: raw}
}
