package llm

import (
	"context"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
//
// Both methods block on network I/O; callers own the timeout via ctx. The
// pipeline treats a Generate/Chat error as a recoverable failure of the
// current attempt, never as a reason to abort the run.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
