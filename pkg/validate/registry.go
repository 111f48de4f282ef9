package validate

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-caseflow/pkg/format"
	"github.com/goliatone/go-caseflow/pkg/schema"
)

// Rule validates a single raw field value.
type Rule func(value string) format.Result

// Matcher decides whether a rule applies to the supplied field descriptor.
type Matcher func(field schema.FieldDescriptor) bool

type entry struct {
	name     string
	priority int
	match    Matcher
	rule     Rule
	order    int
}

// Registry selects the format rule for a field. An explicit Format name on
// the descriptor is honoured first; otherwise matchers run in priority order
// so masked kinds pick up their natural validator without repeating the
// binding in every schema. Higher priority wins; ties fall back to
// registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	named   map[string]Rule
}

// NewRegistry constructs a registry with the built-in format rules
// registered. Bank thresholds come from the supplied config.
func NewRegistry(bank format.BankConfig) *Registry {
	r := &Registry{named: make(map[string]Rule)}
	r.registerBuiltins(bank)
	return r
}

// Register adds a rule under a format name with an optional matcher. A nil
// matcher registers the name for explicit Format references only.
func (r *Registry) Register(name string, priority int, match Matcher, rule Rule) {
	trimmed := strings.TrimSpace(name)
	if r == nil || trimmed == "" || rule == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.named[trimmed] = rule
	if match != nil {
		r.entries = append(r.entries, entry{
			name:     trimmed,
			priority: priority,
			match:    match,
			rule:     rule,
			order:    len(r.entries),
		})
	}
}

// Resolve returns the rule for a field, or false when the field has no
// format validation.
func (r *Registry) Resolve(field schema.FieldDescriptor) (Rule, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	if explicit := strings.TrimSpace(field.Format); explicit != "" {
		rule, ok := r.named[explicit]
		r.mu.RUnlock()
		return rule, ok
	}
	entries := append([]entry(nil), r.entries...)
	r.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority == entries[j].priority {
			return entries[i].order < entries[j].order
		}
		return entries[i].priority > entries[j].priority
	})
	for _, e := range entries {
		if e.match(field) {
			return e.rule, true
		}
	}
	return nil, false
}

func (r *Registry) registerBuiltins(bank format.BankConfig) {
	r.Register(schema.FormatSSN, 90, func(field schema.FieldDescriptor) bool {
		return field.Kind == schema.KindSSN || field.Kind == schema.KindSSNMasked
	}, format.ValidateSSN)

	r.Register(schema.FormatEIN, 90, func(field schema.FieldDescriptor) bool {
		return field.Kind == schema.KindEINMasked
	}, format.ValidateEIN)

	r.Register(schema.FormatPhone, 50, nil, format.ValidatePhone)
	r.Register(schema.FormatZIP, 50, nil, format.ValidateZIP)
	r.Register(schema.FormatRouting, 50, nil, bank.ValidateRoutingNumber)
	r.Register(schema.FormatAccount, 50, nil, bank.ValidateAccountNumber)
}
