package predicate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type node interface {
	eval(ctx Context) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ path string }

func (n truthyNode) eval(ctx Context) (bool, error) {
	value, found := lookup(ctx, n.path)
	if !found {
		return false, nil
	}
	return truthy(value), nil
}

type compareNode struct {
	path    string
	negated bool
	literal token
}

func (n compareNode) eval(ctx Context) (bool, error) {
	value, _ := lookup(ctx, n.path)

	var equal bool
	switch n.literal.kind {
	case tokenNull:
		equal = value == nil
	case tokenBool:
		got, _ := coerceBool(value)
		equal = got == (n.literal.raw == "true")
	case tokenNumber:
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("predicate: invalid number literal %q", n.literal.raw)
		}
		got, found := coerceNumber(value)
		if !found {
			got = 0
		}
		equal = got == want
	default:
		equal = coerceString(value) == n.literal.raw
	}

	if n.negated {
		return !equal, nil
	}
	return equal, nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) peek() (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	return s.tokens[s.pos], true
}

func parse(tokens []token) (node, error) {
	stream := &tokenStream{tokens: tokens}
	out, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if tok, ok := stream.peek(); ok {
		return nil, fmt.Errorf("predicate: unexpected token %q", tok.raw)
	}
	return out, nil
}

func parseOr(stream *tokenStream) (node, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (node, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (node, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (node, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("predicate: missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := stream.peek()
	if !ok {
		return nil, errors.New("predicate: empty expression")
	}
	if tok.kind != tokenIdent {
		return nil, fmt.Errorf("predicate: expected identifier, got %q", tok.raw)
	}
	stream.pos++

	negated := false
	switch {
	case stream.match(tokenEq):
	case stream.match(tokenNeq):
		negated = true
	default:
		return truthyNode{path: tok.raw}, nil
	}

	lit, ok := stream.peek()
	if !ok {
		return nil, errors.New("predicate: missing literal after comparison")
	}
	stream.pos++
	switch lit.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
	case tokenIdent:
		// Bare words on the right compare as strings; keeps rules forgiving.
		lit.kind = tokenString
	default:
		return nil, fmt.Errorf("predicate: expected literal, got %q", lit.raw)
	}

	return compareNode{path: tok.raw, negated: negated, literal: lit}, nil
}

func lookup(ctx Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupPath(ctx.Extras, key[len("extras."):])
	}
	return lookupPath(ctx.Values, key)
}

func lookupPath(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}

	// Flat dotted keys win over traversal; form state is usually flat.
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		typed, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = typed[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
