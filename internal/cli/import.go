package cli

import (
	"fmt"

	"codemcq-service/internal/config"
	"codemcq-service/internal/importer"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewImportCmd converts a spreadsheet into a quiz document in the configured source.
func NewImportCmd(configPath *string) *cobra.Command {
	ic := importer.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "import-xlsx <file>",
		Short: "Import quiz questions from an .xlsx spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			res := &resources{}
			defer res.Close()

			source, err := openQuizSource(cmd.Context(), cfg, res)
			if err != nil {
				return err
			}
			saver, ok := source.(importer.Saver)
			if !ok {
				return fmt.Errorf("quiz source %q is read-only", cfg.Quiz.Source)
			}
			ic.FilePath = args[0]
			result, err := importer.Import(cmd.Context(), ic, saver)
			if result != nil {
				for _, msg := range result.Errors {
					log.WithField("file", ic.FilePath).Warn(msg)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d questions (%d rows skipped)\n",
				result.Quiz.ID, len(result.Quiz.Questions), result.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&ic.Language, "language", "", "language code (required)")
	cmd.Flags().StringVar(&ic.Level, "level", "", "easy, medium or hard (required)")
	cmd.Flags().StringVar(&ic.QuizID, "quiz-id", "", "quiz id (defaults to <language>_<level>)")
	cmd.Flags().StringVar(&ic.Title, "title", "", "quiz title")
	cmd.Flags().StringVar(&ic.Description, "description", "", "quiz description")
	cmd.Flags().IntVar(&ic.DurationMinutes, "duration", 0, "time limit in minutes")
	cmd.Flags().StringVar(&ic.SheetName, "sheet", ic.SheetName, "sheet name")
	cmd.Flags().IntVar(&ic.StartRow, "start-row", ic.StartRow, "first data row (1-based)")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}
