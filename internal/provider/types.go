package provider

// FinishReason describes why the model stopped generating.
type FinishReason string

// FinishReason constants for model completion termination.
const (
	FinishReasonStop         FinishReason = "stop"
	FinishReasonStopSequence FinishReason = "stop_sequence"
	FinishReasonLength       FinishReason = "length"
)

// CompletionRequest is the input to a Provider.Complete call.
//
// The agent speaks a plain-text protocol, so the request carries a single
// rendered prompt rather than a structured conversation.
type CompletionRequest struct {
	Prompt      string   `json:"prompt"`
	Stop        []string `json:"stop,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// CompletionResponse is the output of a Provider.Complete call.
type CompletionResponse struct {
	Text         string       `json:"text"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        TokenUsage   `json:"usage"`
}

// TokenUsage tracks token consumption for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
