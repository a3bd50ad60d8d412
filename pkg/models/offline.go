package models

import (
	"context"
	"fmt"

	"github.com/mapagent/mapagent/pkg/tools"
)

// OfflineProvider answers without any model: heuristic tool selection,
// direct dispatch, plain formatting. It is the terminal rung of every
// fallback ladder and the explicit path when the disable switch is set.
type OfflineProvider struct{}

// NewOfflineProvider builds the model-free provider.
func NewOfflineProvider() *OfflineProvider { return &OfflineProvider{} }

func (p *OfflineProvider) DecideAndAnswer(ctx context.Context, prompt string, dispatch Dispatcher) RunResult {
	tool, args := tools.HeuristicRoute(prompt)
	result := dispatch.Dispatch(ctx, tool, args)
	return RunResult{
		Answer:      fmt.Sprintf("[offline] %s: %s", tool, result.String()),
		ToolResults: outcomes(tool, result),
	}
}
