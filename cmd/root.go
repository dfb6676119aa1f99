// Package cmd is the coursebot command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coursebot/config"
)

var (
	Version = "v0.1.0"
)

type contextKey int

const contextKeyConfig contextKey = iota

type globalOptions struct {
	Debug    bool
	Provider string
}

func NewRootCmd() *cobra.Command {
	options := globalOptions{}

	cmd := &cobra.Command{
		Use:           "coursebot",
		Short:         "Course assistant backed by Claude, Gemini, OpenAI, OpenRouter or Ollama",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if options.Debug {
				os.Setenv("COURSEBOT_DEBUG", "1")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if options.Provider != "" {
				cfg.Provider = options.Provider
			}

			config.InitDebugLog(cfg.DataDir())
			cmd.SetContext(context.WithValue(cmd.Context(), contextKeyConfig, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&options.Debug, "debug", false, "write debug.log to the data directory")
	cmd.PersistentFlags().StringVar(&options.Provider, "provider", "", "LLM provider to use (overrides LLM_PROVIDER)")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewProvidersCmd())
	cmd.AddCommand(NewSessionsCmd())
	return cmd
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func getConfig(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(contextKeyConfig).(*config.Config)
	return cfg
}
