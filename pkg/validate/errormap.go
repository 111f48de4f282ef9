package validate

// ErrorMap is the atomic outcome of one validation pass: one message per
// failing field path plus zero or more array-level messages attributed to a
// whole repeat group rather than any single record. It is always recomputed
// from scratch; stale entries cannot survive a data edit.
type ErrorMap struct {
	Fields map[string]string
	Groups []string
}

func newErrorMap() ErrorMap {
	return ErrorMap{Fields: make(map[string]string)}
}

// Empty reports whether the pass produced no errors at all.
func (m ErrorMap) Empty() bool {
	return len(m.Fields) == 0 && len(m.Groups) == 0
}

// setField records a message for a field path unless an earlier (higher
// precedence) stage already claimed the slot.
func (m ErrorMap) setField(path, message string) {
	if _, taken := m.Fields[path]; taken {
		return
	}
	m.Fields[path] = message
}
