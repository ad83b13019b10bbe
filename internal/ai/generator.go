package ai

import "context"

// Request is one structured generation call.
type Request struct {
	Model  string
	Prompt string
	Schema *Schema
}

// Generator produces the JSON text of a structured response. An empty
// string means the service returned no text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
