// Package orchestrator wires the entity source → schema builder → transformer
// → decorators → renderer pipeline behind a single entry point. Theme
// selection is resolved per request and handed to the renderer.
package orchestrator
