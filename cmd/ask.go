package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapagent/mapagent/pkg/agent"
	"github.com/mapagent/mapagent/pkg/config"
)

const defaultPrompt = "Find a driving route from Beirut to Tripoli and summarize it."

var (
	askProvider string
	askModel    string
	askTimeout  time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask the map assistant a question",
	Args:  cobra.ArbitraryArgs,
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", "", "Model provider: openai, gemini, ollama (default from MAP_AGENT_PROVIDER)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model name override")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "Overall request timeout")
}

func runAsk(_ *cobra.Command, args []string) error {
	cfg := config.Load()
	if askProvider != "" {
		cfg.Provider = strings.ToLower(askProvider)
	}
	if askModel != "" {
		cfg.OpenAIModel = askModel
		cfg.GeminiModel = askModel
		cfg.OllamaModel = askModel
	}

	a, err := agent.New(agent.Options{Config: cfg})
	if err != nil {
		return err
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		prompt = defaultPrompt
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	res := a.Run(ctx, prompt)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
