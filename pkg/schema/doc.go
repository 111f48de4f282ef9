// Package schema defines the declarative field descriptors, repeat groups,
// document requirements, and aggregate rules that make up a step schema, plus
// the registry that resolves them by step id. Schemas are authored as YAML or
// JSON documents (the onboarding defaults are embedded) and loaded once at
// start-up; descriptors are immutable value objects shared freely between
// steps.
package schema
