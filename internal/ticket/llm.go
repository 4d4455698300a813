package ticket

import "context"

// Turn is one unit of dialogue in the transcript passed to the reasoning
// service.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Roles for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is the interface for any text-completion backend. There is no
// guarantee the returned text is valid structured data; callers must parse
// defensively.
type Provider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// CompletionRequest is the input to the provider: a fixed instruction plus
// the accumulated conversation turns.
type CompletionRequest struct {
	MaxTokens int
	System    string
	Turns     []Turn
}

// Completion is the provider's raw output.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Usage is the token usage reported by the provider for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
