package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"coursebot/config"
	"coursebot/storage"
	"coursebot/ui"
)

type chatOptions struct {
	SessionID string
	Resume    bool
	NoTools   bool
}

func NewChatCmd() *cobra.Command {
	var options chatOptions

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())

			if err := cfg.ValidateLLM(); err != nil {
				p := tea.NewProgram(ui.NewErrorModal("Configuration Error", err.Error()), tea.WithAltScreen())
				if _, runErr := p.Run(); runErr != nil {
					return runErr
				}
				return err
			}

			rt, err := newAppRuntime(cmd.Context(), cfg, !options.NoTools)
			if err != nil {
				return err
			}
			defer rt.Close()

			sessionID, history, err := resumeSession(cmd, rt.store, options)
			if err != nil {
				return err
			}

			llm, _ := cfg.LLM()
			view := ui.NewAppView(cmd.Context(), rt.service, ui.Options{
				ProviderName: config.ProviderDisplayName(llm.Provider),
				ToolCount:    rt.registry.Len(),
				SessionID:    sessionID,
				History:      history,
			})

			p := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("chat exited: %w", err)
			}

			if v, ok := final.(ui.AppView); ok && v.SessionID() != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", v.SessionID())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&options.SessionID, "session", "", "session to continue")
	cmd.Flags().BoolVar(&options.Resume, "resume", false, "continue the most recent session")
	cmd.Flags().BoolVar(&options.NoTools, "no-tools", false, "do not offer tools to the model")
	cmd.MarkFlagsMutuallyExclusive("session", "resume")
	return cmd
}

func resumeSession(cmd *cobra.Command, store *storage.HistoryStore, options chatOptions) (string, []storage.Exchange, error) {
	ctx := cmd.Context()
	sessionID := options.SessionID

	if options.Resume {
		sessions, err := store.ListSessions(ctx)
		if err != nil {
			return "", nil, err
		}
		if len(sessions) == 0 {
			return "", nil, nil
		}
		sessionID = sessions[0].ID
	}

	if sessionID == "" {
		return "", nil, nil
	}

	if _, err := store.Session(ctx, sessionID); err != nil {
		return "", nil, err
	}
	history, err := store.Exchanges(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	return sessionID, history, nil
}
