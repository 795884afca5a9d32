package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"codemcq-service/internal/config"
	"github.com/spf13/cobra"
)

// NewCatalogCmd prints the quizzes the configured source can serve.
func NewCatalogCmd(configPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List available quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			res := &resources{}
			defer res.Close()

			quizzes, err := openQuizBank(cmd.Context(), cfg, nil, res)
			if err != nil {
				return err
			}
			catalog, err := quizzes.bank.ListCatalog(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(catalog)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLANGUAGE\tLEVEL\tQUESTIONS\tMINUTES\tTITLE")
			for _, e := range catalog {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", e.ID, e.LanguageLabel, e.Level, e.QuestionsCount, e.DurationMinutes, e.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
