// Package format provides the US-specific string transformers and validators
// used by form fields: SSN, EIN, phone, bank routing/account numbers, and ZIP
// codes. Transformers are pure and never fail; on unparseable input they
// return the best-effort partial transform. Validators return a Result value
// instead of an error so callers can surface messages directly.
package format
