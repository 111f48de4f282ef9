package schema

import (
	"embed"
	"io/fs"
)

//go:embed schemas/*
var embeddedSchemas embed.FS

// EmbeddedFS returns the bundled onboarding schema documents (medallion,
// driver, vehicle, owner, corporation). Callers may pass this filesystem to
// LoadFS, or use Default() which does so.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchemas, "schemas")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default loads the embedded schema documents into a registry. It panics on
// failure: the bundled documents are compiled in, so failure to parse them is
// a programming error.
func Default() *Registry {
	registry, err := LoadFS(EmbeddedFS())
	if err != nil {
		panic(err)
	}
	return registry
}
