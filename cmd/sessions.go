package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursebot/storage"
)

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Short:   "Inspect stored conversations",
		Aliases: []string{"session"},
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsSearchCmd())
	cmd.AddCommand(newSessionsDeleteCmd())
	return cmd
}

func withStore(cmd *cobra.Command, fn func(store *storage.HistoryStore) error) error {
	store, err := storage.NewHistoryStore(getConfig(cmd.Context()).DataDir())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List sessions, most recent first",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.HistoryStore) error {
				sessions, err := store.ListSessions(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(sessions))
				for _, s := range sessions {
					rows = append(rows, []string{s.ID, s.Name, s.UpdatedAt.Local().Format("2006-01-02 15:04")})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME", "UPDATED"}, rows)
			})
		},
	}
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the exchanges of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.HistoryStore) error {
				if _, err := store.Session(cmd.Context(), args[0]); err != nil {
					return err
				}
				exchanges, err := store.Exchanges(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, ex := range exchanges {
					fmt.Fprintf(out, "[%s] %s/%s\nUser: %s\nAssistant: %s\n\n",
						ex.CreatedAt.Local().Format("2006-01-02 15:04"), ex.Provider, ex.Model, ex.Question, ex.Answer)
				}
				return nil
			})
		},
	}
}

func newSessionsSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search questions and answers across sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.HistoryStore) error {
				matches, err := store.Search(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(matches))
				for _, m := range matches {
					rows = append(rows, []string{m.SessionID, m.SessionName, m.Preview})
				}
				return writeTable(cmd.OutOrStdout(), []string{"SESSION", "NAME", "MATCH"}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	return cmd
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a session and its exchanges",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.HistoryStore) error {
				if err := store.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}
}
