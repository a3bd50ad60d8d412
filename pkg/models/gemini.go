package models

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mapagent/mapagent/pkg/tools"
)

const geminiPolicy = "You are a strict map assistant. Tool policy: if the user asks for a driving route" +
	" between two places, call ors_route_places (or ors_route) and return only the route" +
	" steps as a numbered list of turn-by-turn instructions. If the user asks for distance," +
	" call ors_distance_places (or ors_distance) and return only the numeric distance in km." +
	" Do not echo raw geocode results in the final answer."

// GeminiProvider drives the generative-language API with function
// declarations. The client is built lazily per run so that a missing key
// degrades into the heuristic fallback instead of failing construction.
type GeminiProvider struct {
	apiKey string
	model  string
	logger *log.Logger
}

// NewGeminiProvider builds the provider; the credential is validated at
// call time, not here.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
		logger: log.New(os.Stderr, "gemini: ", log.LstdFlags),
	}
}

// toGeminiSchema converts a JSON-schema parameter map into the typed
// schema the SDK wants. Unknown constraints (minItems and friends) are
// dropped; the declaration keeps types, descriptions and required lists.
func toGeminiSchema(params map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeObject}
	if params == nil {
		return s
	}
	switch params["type"] {
	case "string":
		s.Type = genai.TypeString
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
	default:
		s.Type = genai.TypeObject
	}
	if desc, ok := params["description"].(string); ok {
		s.Description = desc
	}
	if props, ok := params["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if m, ok := raw.(map[string]any); ok {
				s.Properties[name] = toGeminiSchema(m)
			}
		}
	}
	if items, ok := params["items"].(map[string]any); ok {
		s.Items = toGeminiSchema(items)
	}
	if required, ok := params["required"].([]string); ok {
		s.Required = required
	}
	return s
}

func geminiTools() []*genai.Tool {
	specs := tools.Catalog()
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  toGeminiSchema(s.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// functionResponse wraps a tool result the way the generative API expects
// it: the JSON-encoded result inside response.content[0].text.
func functionResponse(name string, result fmt.Stringer) genai.FunctionResponse {
	return genai.FunctionResponse{
		Name: name,
		Response: map[string]any{
			"name":    name,
			"content": []any{map[string]any{"text": result.String()}},
		},
	}
}

func textOf(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func (p *GeminiProvider) DecideAndAnswer(ctx context.Context, prompt string, dispatch Dispatcher) RunResult {
	res, err := p.runWithTools(ctx, prompt, dispatch)
	if err == nil {
		return res
	}
	p.logger.Printf("falling back to heuristic: %v", err)

	tool, args := tools.HeuristicRoute(prompt)
	result := dispatch.Dispatch(ctx, tool, args)
	return RunResult{
		Answer:      fmt.Sprintf("[gemini fallback] %s: %s (no model: %v)", tool, result.String(), err),
		ToolResults: outcomes(tool, result),
	}
}

func (p *GeminiProvider) runWithTools(ctx context.Context, prompt string, dispatch Dispatcher) (RunResult, error) {
	if p.apiKey == "" {
		return RunResult{}, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return RunResult{}, fmt.Errorf("gemini init: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.Tools = geminiTools()
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAuto},
	}

	chat := model.StartChat()
	chat.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(geminiPolicy)}},
	}

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return RunResult{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return RunResult{Answer: "", ToolResults: []ToolOutcome{}}, nil
	}

	var (
		results   []ToolOutcome
		responses []genai.Part
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		call, ok := part.(genai.FunctionCall)
		if !ok {
			continue
		}
		result := dispatch.Dispatch(ctx, call.Name, call.Args)
		results = append(results, ToolOutcome{Tool: call.Name, Content: result})
		responses = append(responses, functionResponse(call.Name, result))
	}

	if len(results) == 0 {
		return RunResult{Answer: textOf(resp.Candidates[0].Content), ToolResults: []ToolOutcome{}}, nil
	}

	// Final turn: tool declarations stay attached but calling is forced
	// out of automatic mode.
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAny},
	}
	final, err := chat.SendMessage(ctx, responses...)
	if err != nil {
		return RunResult{}, err
	}

	text := ""
	if len(final.Candidates) > 0 {
		text = textOf(final.Candidates[0].Content)
	}
	if strings.TrimSpace(text) == "" {
		text = SynthesizeAnswer(results)
	}
	return RunResult{Answer: text, ToolResults: results}, nil
}

// GenerateText issues a plain text-only generation, no tools attached.
// Handy for smoke checks against the configured model.
func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	if p.apiKey == "" {
		return "", errors.New("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini init: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(maxTokens)
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	return textOf(resp.Candidates[0].Content), nil
}
