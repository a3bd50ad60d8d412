// Package agent assembles the map assistant: configuration, geo
// adapters, tool dispatch and the selected model provider, behind one
// Run call.
package agent

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mapagent/mapagent/pkg/config"
	"github.com/mapagent/mapagent/pkg/geo"
	"github.com/mapagent/mapagent/pkg/models"
	"github.com/mapagent/mapagent/pkg/tools"
)

// Assistant answers map questions by routing prompts through a model
// provider (or the heuristic router) into the geo tool dispatcher. One
// assistant owns one dispatcher, so resolved place coordinates are
// remembered across Run calls.
type Assistant struct {
	provider models.Provider
	dispatch *tools.Dispatcher
	logger   *log.Logger
}

// Options configure a new Assistant. Only Config is required; the geo
// adapters and the provider are built from it when left nil.
type Options struct {
	Config   config.Config
	Provider models.Provider
	OSM      tools.Geocoder
	ORS      tools.Router
	Logger   *log.Logger
}

// New creates an Assistant with the provided options. Construction fails
// only when the configured provider cannot be built, which for the
// default OpenAI path means a missing API key.
func New(opts Options) (*Assistant, error) {
	osm := opts.OSM
	if osm == nil {
		osm = geo.NewOSMClient(opts.Config.UserAgent, opts.Config.CountryCodes)
	}
	ors := opts.ORS
	if ors == nil {
		ors = geo.NewORSClient(opts.Config.ORSKey)
	}

	provider := opts.Provider
	if provider == nil {
		var err error
		provider, err = models.NewProvider(opts.Config)
		if err != nil {
			return nil, fmt.Errorf("build provider: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "agent: ", log.LstdFlags)
	}

	return &Assistant{
		provider: provider,
		dispatch: tools.NewDispatcher(osm, ors),
		logger:   logger,
	}, nil
}

// Run answers one prompt. It never returns an error: provider paths
// degrade internally and every tool failure is carried inside the
// result.
func (a *Assistant) Run(ctx context.Context, prompt string) models.RunResult {
	a.logger.Printf("prompt: %s", prompt)
	res := a.provider.DecideAndAnswer(ctx, prompt, a.dispatch)
	a.logger.Printf("tools used: %d", len(res.ToolResults))
	return res
}
