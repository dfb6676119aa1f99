package cmd

import (
	"github.com/spf13/cobra"

	"coursebot/config"
	"coursebot/provider"
)

func NewProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported LLM providers and their configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			selected, _ := cfg.LLM()

			var rows [][]string
			for _, id := range provider.ListSupported() {
				marker := ""
				if id == selected.Provider {
					marker = "*"
				}
				rows = append(rows, []string{marker, config.ProviderDisplayName(id), cfg.Providers[id].Model, keyStatus(cfg, id)})
			}
			return writeTable(cmd.OutOrStdout(), []string{"", "PROVIDER", "MODEL", "API KEY"}, rows)
		},
	}
}

func keyStatus(cfg *config.Config, id string) string {
	env := config.APIKeyEnv(id)
	switch {
	case env == "":
		return "not needed"
	case cfg.APIKey(id) != "":
		return "set"
	default:
		return "missing (" + env + ")"
	}
}
