// Package adapter turns per-language extractor output into the unified
// node/edge schema. Each language is an independent pure function over an
// immutable component list: a first pass builds local resolution tables
// (import aliases, name indexes), a second pass resolves references and emits
// edges, and a final closure pass guarantees every edge endpoint has a node.
package adapter

import (
	"fmt"
	"sort"

	"codegraph/internal/component"
)

// Func adapts one language's raw components into the unified schema. The
// input slice must be treated as frozen for the duration of the call; the
// returned schema is always closed (no dangling edges).
type Func func(Context, []component.Raw) Schema

var registry = map[string]Func{
	"golang":     AdaptGo,
	"python":     AdaptPython,
	"typescript": AdaptTypeScript,
	"javascript": AdaptJavaScript,
	"rust":       AdaptRust,
	"haskell":    AdaptHaskell,
	"rescript":   AdaptReScript,
	"purescript": AdaptPureScript,
}

// For returns the adapter registered for a language name.
func For(language string) (Func, bool) {
	fn, ok := registry[language]
	return fn, ok
}

// Languages lists the registered language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Adapt derives a context from the batch and runs the language's adapter.
func Adapt(language string, comps []component.Raw) (Schema, error) {
	fn, ok := registry[language]
	if !ok {
		return Schema{}, fmt.Errorf("no adapter registered for language %q", language)
	}
	return fn(NewContext(comps), comps), nil
}
