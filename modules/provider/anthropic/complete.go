package anthropic

import (
	"context"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/flemzord/reagent/internal/provider"
)

// Complete sends the rendered prompt as a single user message and
// returns the model's completion.
func (a *Anthropic) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	params := sdkanthropic.MessageNewParams{
		Model: sdkanthropic.Model(a.config.Model),
		Messages: []sdkanthropic.MessageParam{
			sdkanthropic.NewUserMessage(sdkanthropic.NewTextBlock(req.Prompt)),
		},
		MaxTokens: int64(a.config.MaxTokens),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}
	if req.Temperature != nil {
		params.Temperature = sdkanthropic.Float(*req.Temperature)
	}
	if len(req.Stop) > 0 {
		params.StopSequences = req.Stop
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return provider.CompletionResponse{}, mapError(err)
	}

	return convertResponse(msg), nil
}

// convertResponse flattens the message's text blocks and maps the stop
// reason onto the provider vocabulary.
func convertResponse(msg *sdkanthropic.Message) provider.CompletionResponse {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	var reason provider.FinishReason
	switch msg.StopReason {
	case sdkanthropic.StopReasonEndTurn:
		reason = provider.FinishReasonStop
	case sdkanthropic.StopReasonStopSequence:
		reason = provider.FinishReasonStopSequence
	case sdkanthropic.StopReasonMaxTokens:
		reason = provider.FinishReasonLength
	default:
		reason = provider.FinishReason(msg.StopReason)
	}

	return provider.CompletionResponse{
		Text:         text,
		FinishReason: reason,
		Usage: provider.TokenUsage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
}
