package schema

// FieldKind is the tagged union of form-friendly field kinds. The validation
// engine dispatches on it through a registry rather than a conditional chain,
// so new kinds can be added without touching the dispatcher.
type FieldKind string

const (
	KindText       FieldKind = "text"
	KindSelect     FieldKind = "select"
	KindCalendar   FieldKind = "calendar"
	KindTime       FieldKind = "time"
	KindRadio      FieldKind = "radio"
	KindCheckbox   FieldKind = "checkbox"
	KindSwitch     FieldKind = "switch"
	KindFileUpload FieldKind = "file-upload"
	KindFileView   FieldKind = "file-view"
	KindSSN        FieldKind = "ssn"
	KindSSNMasked  FieldKind = "ssn-masked"
	KindEINMasked  FieldKind = "ein-masked"
)

// Format names bind a field to one of the pkg/format validators.
const (
	FormatSSN     = "ssn"
	FormatEIN     = "ein"
	FormatPhone   = "phone"
	FormatZIP     = "zip"
	FormatRouting = "routing"
	FormatAccount = "account"
)

// KnownKind reports whether the kind is one of the built-in field kinds.
func KnownKind(kind FieldKind) bool {
	switch kind {
	case KindText, KindSelect, KindCalendar, KindTime, KindRadio, KindCheckbox,
		KindSwitch, KindFileUpload, KindFileView, KindSSN, KindSSNMasked, KindEINMasked:
		return true
	default:
		return false
	}
}

// Option is one entry of a select/radio option set.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldDescriptor declaratively describes one form field. Descriptors are
// immutable value objects defined at build time; steps may share the same
// descriptor (a state-code select reused across address blocks) safely.
type FieldDescriptor struct {
	// Path is the dot-addressable identifier of the field. Inside a repeat
	// group the path is relative to the record; callers address concrete
	// records as group[2].path.
	Path string `json:"path" yaml:"path"`

	Label string    `json:"label" yaml:"label"`
	Kind  FieldKind `json:"kind" yaml:"kind"`

	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// RequiredIf makes the field conditionally required: a pkg/predicate rule
	// evaluated against the current form state (record-scoped inside groups).
	RequiredIf string `json:"requiredIf,omitempty" yaml:"requiredIf,omitempty"`

	// Format names the pkg/format validator applied after the required check.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Confirms points at a sibling field this value must equal (confirm
	// account number, confirm email).
	Confirms string `json:"confirms,omitempty" yaml:"confirms,omitempty"`

	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Size is a layout hint (for example "half" or "full"); the engine carries
	// it through untouched.
	Size string `json:"size,omitempty" yaml:"size,omitempty"`

	Help string `json:"help,omitempty" yaml:"help,omitempty"`
}

// DocumentRequirement gates step completion on an uploaded document. Field
// names the descriptor whose error slot a missing document surfaces in.
// Inside a repeat group the effective document type code is suffixed with the
// record's 1-based position (driving_license_2).
type DocumentRequirement struct {
	Type       string `json:"type" yaml:"type"`
	Field      string `json:"field" yaml:"field"`
	RequiredIf string `json:"requiredIf,omitempty" yaml:"requiredIf,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
}

// GroupRule kinds evaluated once over a whole repeat group.
const (
	RuleCount = "count"
	RuleSum   = "sum"
)

// GroupRule is an aggregate constraint over a repeat group: RuleCount bounds
// how many records have a truthy Field (exactly-one primary contact is
// min=1,max=1), RuleSum requires the Field values to total Total after
// rounding to two decimals.
type GroupRule struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Field   string  `json:"field" yaml:"field"`
	Min     int     `json:"min,omitempty" yaml:"min,omitempty"`
	Max     int     `json:"max,omitempty" yaml:"max,omitempty"`
	Total   float64 `json:"total,omitempty" yaml:"total,omitempty"`
	Message string  `json:"message" yaml:"message"`
}

// RepeatGroup describes a homogeneous array of records (beneficial owners,
// payees). MinRecords enforces the length invariant; owners carry at least
// one record at all times.
type RepeatGroup struct {
	Name       string                `json:"name" yaml:"name"`
	Label      string                `json:"label,omitempty" yaml:"label,omitempty"`
	MinRecords int                   `json:"min,omitempty" yaml:"min,omitempty"`
	Fields     []FieldDescriptor     `json:"fields" yaml:"fields"`
	Documents  []DocumentRequirement `json:"documents,omitempty" yaml:"documents,omitempty"`
	Rules      []GroupRule           `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// StepSchema is the ordered field layout of one case step plus the document
// requirements and aggregate rules gating its submission.
type StepSchema struct {
	ID        string                `json:"id" yaml:"id"`
	Title     string                `json:"title,omitempty" yaml:"title,omitempty"`
	Fields    []FieldDescriptor     `json:"fields" yaml:"fields"`
	Groups    []RepeatGroup         `json:"groups,omitempty" yaml:"groups,omitempty"`
	Documents []DocumentRequirement `json:"documents,omitempty" yaml:"documents,omitempty"`
}

// Field returns the descriptor at the given path, searching top-level fields
// only.
func (s StepSchema) Field(path string) (FieldDescriptor, bool) {
	for _, field := range s.Fields {
		if field.Path == path {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Group returns the repeat group with the given name.
func (s StepSchema) Group(name string) (RepeatGroup, bool) {
	for _, group := range s.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return RepeatGroup{}, false
}
