package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type askOptions struct {
	SessionID string
	NoTools   bool
}

func NewAskCmd() *cobra.Command {
	var options askOptions

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Example: `  # Start a new session
  coursebot ask "What does lesson 3 cover?"

  # Continue a session
  coursebot ask --session 0b6f... "And lesson 4?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			rt, err := newAppRuntime(cmd.Context(), getConfig(cmd.Context()), !options.NoTools)
			if err != nil {
				return err
			}
			defer rt.Close()

			answer, err := rt.service.Ask(cmd.Context(), options.SessionID, question)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			if options.SessionID == "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", answer.SessionID)
			}

			if answer.Failed {
				return errors.New("the provider could not answer")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&options.SessionID, "session", "", "session to continue")
	cmd.Flags().BoolVar(&options.NoTools, "no-tools", false, "do not offer tools to the model")
	return cmd
}
