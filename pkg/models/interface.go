package models

import (
	"context"

	"github.com/mapagent/mapagent/pkg/geo"
)

// Dispatcher executes a named tool call and always produces a Result.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) geo.Result
}

// ToolOutcome pairs a tool name with what it returned.
type ToolOutcome struct {
	Tool    string     `json:"tool"`
	Content geo.Result `json:"content"`
}

// RunResult is the contract every provider path returns: a human-readable
// answer plus the raw tool outcomes, in execution order. Answer is always
// text, never a raw provider object.
type RunResult struct {
	Answer      string        `json:"answer"`
	ToolResults []ToolOutcome `json:"tool_results"`
}

// Provider decides which tool to call for a prompt, executes it through
// the dispatcher, and produces the final answer. Each implementation owns
// its complete fallback ladder: DecideAndAnswer degrades, it never fails.
type Provider interface {
	DecideAndAnswer(ctx context.Context, prompt string, dispatch Dispatcher) RunResult
}

func outcomes(tool string, content geo.Result) []ToolOutcome {
	return []ToolOutcome{{Tool: tool, Content: content}}
}
