package openai

import (
	"encoding/json"
	"strings"

	// Packages
	uuid "github.com/google/uuid"
	types "github.com/mutablelogic/go-server/pkg/types"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	openai "github.com/sashabaranov/go-openai"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - REQUEST

// toMessages converts the instruction and conversation into chat messages.
// Each tool result becomes its own message with the "tool" role.
func toMessages(instruction string, conversation schema.Conversation) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(conversation)+1)
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: instruction,
		})
	}
	for _, message := range conversation {
		if message == nil {
			continue
		}

		// Tool results
		if results := message.ToolResults(); len(results) > 0 {
			for _, r := range results {
				result = append(result, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Name:       r.Name,
					ToolCallID: r.ID,
					Content:    string(r.Content),
				})
			}
			continue
		}

		switch message.Role {
		case schema.RoleAssistant:
			m := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: message.Text(),
			}
			for _, call := range message.ToolCalls() {
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: arguments(call.Input),
					},
				})
			}
			result = append(result, m)
		case schema.RoleSystem:
			result = append(result, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: message.Text(),
			})
		default:
			result = append(result, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: message.Text(),
			})
		}
	}
	return result
}

// toTools converts tool definitions into function tools
func toTools(definitions []schema.ToolDefinition) []openai.Tool {
	if len(definitions) == 0 {
		return nil
	}
	result := make([]openai.Tool, 0, len(definitions))
	for _, def := range definitions {
		fn := &openai.FunctionDefinition{
			Name:        def.Name,
			Description: def.Description,
		}
		if def.InputSchema != nil {
			fn.Parameters = def.InputSchema
		} else {
			fn.Parameters = json.RawMessage(`{"type":"object","properties":{}}`)
		}
		result = append(result, openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: fn,
		})
	}
	return result
}

func arguments(input json.RawMessage) string {
	if len(input) == 0 {
		return "{}"
	}
	return string(input)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - RESPONSE

// fromMessage converts a reply into a message. Tool calls without an
// identifier are given one, since results are matched to calls by it.
func fromMessage(message openai.ChatCompletionMessage, reason openai.FinishReason) *schema.Message {
	result := &schema.Message{
		Role:   schema.RoleAssistant,
		Result: fromFinishReason(reason),
	}
	if text := strings.TrimSpace(message.Content); text != "" {
		result.Content = append(result.Content, schema.ContentBlock{Text: types.Ptr(message.Content)})
	}
	for _, call := range message.ToolCalls {
		if call.Type != "" && call.Type != openai.ToolTypeFunction {
			continue
		}
		id := call.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		input := json.RawMessage(call.Function.Arguments)
		if !json.Valid(input) {
			input = nil
		}
		result.Content = append(result.Content, schema.ContentBlock{ToolCall: &schema.ToolCall{
			ID:    id,
			Name:  call.Function.Name,
			Input: input,
		}})
	}
	if len(result.ToolCalls()) > 0 {
		result.Result = schema.ResultToolCall
	}
	return result
}

func fromFinishReason(reason openai.FinishReason) schema.ResultType {
	switch reason {
	case openai.FinishReasonStop:
		return schema.ResultStop
	case openai.FinishReasonLength:
		return schema.ResultMaxTokens
	case openai.FinishReasonContentFilter:
		return schema.ResultBlocked
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		return schema.ResultToolCall
	default:
		return schema.ResultOther
	}
}
