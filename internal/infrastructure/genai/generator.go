package genai

import "context"

// Generator abstracts the external text-generation service so the
// report layer can be exercised against stubs.
type Generator interface {
	// Configured reports whether a usable credential is present. Callers
	// must short-circuit before Generate when it returns false.
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}
