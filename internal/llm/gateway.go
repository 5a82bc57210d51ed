package llm

import (
	"context"
	"errors"
)

// ErrGenerationFailed wraps any gateway error: timeout, upstream failure,
// or a malformed response. Callers detect it with errors.Is.
var ErrGenerationFailed = errors.New("llm generation failed")

// ChatMessage is one role-tagged entry in the ordered sequence sent to the
// model. Role is one of "system", "user", "assistant".
type ChatMessage struct {
	Role    string
	Content string
}

// Result is the outcome of a successful generation.
type Result struct {
	Text  string
	Model string // identifier of the generating model, may be empty
}

// Gateway is the boundary to the external text-generation service. It is
// expected to enforce its own timeout and surface it as an error.
type Gateway interface {
	Generate(ctx context.Context, messages []ChatMessage) (*Result, error)
}
