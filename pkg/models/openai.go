package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mapagent/mapagent/pkg/tools"
)

const chatSystemPrompt = "You are a helpful map assistant. Use tools when helpful."

// OpenAIProvider is the default path: one chat-completions call with the
// tool catalog attached and automatic tool choice, then a second call
// with the tool results to obtain the final answer. A missing API key is
// a construction error — the default path fails fast on misconfiguration,
// everything after construction degrades instead of failing.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewOpenAIProvider builds the provider or reports a missing credential.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: log.New(os.Stderr, "openai: ", log.LstdFlags),
	}, nil
}

// openAITools renders the catalog as chat-completions tool declarations.
func openAITools() []openai.Tool {
	specs := tools.Catalog()
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return out
}

// heuristicFallback runs the model-free ladder and reports the failure in
// the answer text so the user sees the degradation.
func heuristicFallback(ctx context.Context, prompt string, dispatch Dispatcher, cause error) RunResult {
	tool, args := tools.HeuristicRoute(prompt)
	result := dispatch.Dispatch(ctx, tool, args)
	return RunResult{
		Answer:      fmt.Sprintf("[fallback] %s: %s (no model: %v)", tool, result.String(), cause),
		ToolResults: outcomes(tool, result),
	}
}

func (p *OpenAIProvider) DecideAndAnswer(ctx context.Context, prompt string, dispatch Dispatcher) RunResult {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:      p.model,
		Messages:   messages,
		Tools:      openAITools(),
		ToolChoice: "auto",
	})
	if err != nil {
		p.logger.Printf("initial call failed: %v", err)
		return heuristicFallback(ctx, prompt, dispatch, err)
	}
	if len(resp.Choices) == 0 {
		return heuristicFallback(ctx, prompt, dispatch, errors.New("no choices in model response"))
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		// The model answered directly.
		return RunResult{Answer: msg.Content, ToolResults: []ToolOutcome{}}
	}

	var (
		results  []ToolOutcome
		toolMsgs []openai.ChatCompletionMessage
	)
	for _, call := range msg.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			args = map[string]any{}
		}
		result := dispatch.Dispatch(ctx, call.Function.Name, args)
		results = append(results, ToolOutcome{Tool: call.Function.Name, Content: result})
		toolMsgs = append(toolMsgs, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: call.ID,
			Content:    result.String(),
		})
	}

	messages = append(messages, msg)
	messages = append(messages, toolMsgs...)

	final, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil || len(final.Choices) == 0 {
		if err == nil {
			err = errors.New("no choices in model response")
		}
		contents := make([]string, 0, len(toolMsgs))
		for _, tm := range toolMsgs {
			contents = append(contents, tm.Content)
		}
		return RunResult{
			Answer:      fmt.Sprintf("Results from tools: %v (no model: %v)", contents, err),
			ToolResults: results,
		}
	}

	return RunResult{Answer: final.Choices[0].Message.Content, ToolResults: results}
}
