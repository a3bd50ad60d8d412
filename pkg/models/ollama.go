package models

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/mapagent/mapagent/pkg/geo"
	"github.com/mapagent/mapagent/pkg/tools"
)

// OllamaProvider drives a local Ollama model through two blocking chat
// calls: one to select a tool as strict JSON, one to summarize the tool
// result. Every model failure degrades silently — tool selection falls
// back to the heuristic router, summarization falls back to the raw
// result text.
type OllamaProvider struct {
	client *ollama.Client
	model  string
	numCtx int
	logger *log.Logger
}

// NewOllamaProvider builds a provider against the given Ollama host.
func NewOllamaProvider(host, model string, numCtx int) (*OllamaProvider, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &OllamaProvider{
		client: ollama.NewClient(u, httpClient),
		model:  model,
		numCtx: numCtx,
		logger: log.New(os.Stderr, "ollama: ", log.LstdFlags),
	}, nil
}

// chat issues one non-streaming chat call and returns the full content.
func (p *OllamaProvider) chat(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model: p.model,
		Messages: []ollama.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  &stream,
		Options: map[string]any{"num_ctx": p.numCtx},
	}

	var content strings.Builder
	err := p.client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return content.String(), nil
}

type toolChoice struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// chooseTool asks the model to pick one tool as strict JSON. Any failure
// (network, non-JSON, empty name) yields ok=false and the caller falls
// back to the heuristic router.
func (p *OllamaProvider) chooseTool(ctx context.Context, prompt string) (toolChoice, bool) {
	system := fmt.Sprintf(
		"You are a tool selector. Given a user prompt, choose the single best tool "+
			"from the list and return strictly JSON in the format: "+
			`{"tool": "<name>", "arguments": { ... }}. `+
			"Tools: %v. Do not include any other text.", tools.Names())

	content, err := p.chat(ctx, system, "Prompt: "+prompt)
	if err != nil {
		p.logger.Printf("tool selection failed: %v", err)
		return toolChoice{}, false
	}

	var choice toolChoice
	if err := json.Unmarshal([]byte(content), &choice); err != nil {
		p.logger.Printf("tool selection returned non-JSON: %v", err)
		return toolChoice{}, false
	}
	if strings.TrimSpace(choice.Tool) == "" {
		return toolChoice{}, false
	}
	return choice, true
}

// summarize asks the model for a short friendly answer over the tool
// result; on failure the stringified result stands in.
func (p *OllamaProvider) summarize(ctx context.Context, prompt, tool string, result geo.Result) string {
	user := fmt.Sprintf("User asked: %s\nTool used: %s\nTool result JSON: %s", prompt, tool, result.String())
	content, err := p.chat(ctx, "You are a helpful map assistant. Write a short, friendly answer.", user)
	if err != nil || strings.TrimSpace(content) == "" {
		return result.String()
	}
	return content
}

func (p *OllamaProvider) DecideAndAnswer(ctx context.Context, prompt string, dispatch Dispatcher) RunResult {
	tool, args := "", map[string]any(nil)
	if choice, ok := p.chooseTool(ctx, prompt); ok {
		tool, args = choice.Tool, choice.Arguments
	} else {
		tool, args = tools.HeuristicRoute(prompt)
	}

	result := dispatch.Dispatch(ctx, tool, args)
	return RunResult{
		Answer:      p.summarize(ctx, prompt, tool, result),
		ToolResults: outcomes(tool, result),
	}
}
