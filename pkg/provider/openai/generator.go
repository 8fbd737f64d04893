package openai

import (
	"context"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	openai "github.com/sashabaranov/go-openai"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate sends the conversation to the model and returns its reply
func (c *Client) Generate(ctx context.Context, request schema.GenerateRequest) (*schema.Message, error) {
	if request.Model == "" {
		return nil, weatherbot.ErrBadParameter.With("model is required")
	}

	// Request -> Response
	response, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    request.Model,
		Messages: toMessages(request.Instruction, request.Messages),
		Tools:    toTools(request.Tools),
	})
	if err != nil {
		return nil, err
	} else if len(response.Choices) == 0 {
		return nil, weatherbot.ErrModel.With("response has no choices")
	}

	// Return the first choice
	choice := response.Choices[0]
	return fromMessage(choice.Message, choice.FinishReason), nil
}
