package agent

import (
	"context"
	"strings"
	"time"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Ask sends the text to the model within a conversation and returns the
// final reply. Tool calls the model makes are run through the toolkit, and
// a tool failure is passed back to the model as an error result so it can
// explain the problem. The turn is added to the conversation history only
// when it completes.
func (a *Agent) Ask(ctx context.Context, conversation, text string) (string, error) {
	if text = strings.TrimSpace(text); text == "" {
		return "", weatherbot.ErrBadParameter.With("empty message")
	}

	// Retrieve the history
	history, err := a.store.Get(ctx, conversation)
	if err != nil {
		return "", err
	}

	// Tools the model may call
	tools, err := a.toolkit.Definitions()
	if err != nil {
		return "", err
	}

	// Messages of this turn, kept apart until the turn completes
	turn := schema.Conversation{schema.NewMessage(schema.RoleUser, text)}

	// Tool-calling loop: run each tool call and feed the results back until
	// the model answers without calling a tool, or we hit the limit
	var reply *schema.Message
	for i := 0; ; i++ {
		reply, err = a.generate(ctx, schema.GenerateRequest{
			Model:       a.model,
			Instruction: a.instruction,
			Messages:    append(history, turn...),
			Tools:       tools,
		})
		if err != nil {
			return "", err
		}
		turn = append(turn, reply)

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			break
		} else if i >= a.maxIter {
			return "", weatherbot.ErrMaxIterations.Withf("after %d rounds", i)
		}

		// Execute each tool call and collect result blocks
		results := make([]schema.ContentBlock, 0, len(calls))
		for _, call := range calls {
			results = append(results, a.runTool(ctx, call))
		}
		turn = append(turn, &schema.Message{
			Role:    schema.RoleTool,
			Content: results,
		})
	}

	// The model has to say something
	answer := strings.TrimSpace(reply.Text())
	if answer == "" {
		return "", weatherbot.ErrModel.With("empty reply")
	}

	// Persist the completed turn
	if err := a.store.Append(ctx, conversation, turn...); err != nil {
		return "", err
	}

	// Return success
	return answer, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (a *Agent) generate(ctx context.Context, request schema.GenerateRequest) (*schema.Message, error) {
	start := time.Now()
	reply, err := a.generator.Generate(ctx, request)
	observability.ModelCallsTotal.WithLabelValues(observability.Status(err)).Inc()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, weatherbot.ErrModel.With(err)
	} else if reply == nil {
		return nil, weatherbot.ErrModel.With("no reply")
	}
	a.logger.Debug("model reply",
		zap.String("model", request.Model),
		zap.Int("messages", len(request.Messages)),
		zap.Stringer("result", reply.Result),
		zap.Duration("duration", time.Since(start)),
	)
	return reply, nil
}

func (a *Agent) runTool(ctx context.Context, call schema.ToolCall) schema.ContentBlock {
	output, err := a.toolkit.Run(ctx, call.Name, call.Input)
	observability.ToolCallsTotal.WithLabelValues(call.Name, observability.Status(err)).Inc()
	if err != nil {
		a.logger.Warn("tool call failed", zap.String("tool", call.Name), zap.ByteString("input", call.Input), zap.Error(err))
		return schema.NewToolError(call.ID, call.Name, err)
	}
	a.logger.Debug("tool call", zap.String("tool", call.Name), zap.ByteString("input", call.Input))
	return schema.NewToolResult(call.ID, call.Name, output)
}
