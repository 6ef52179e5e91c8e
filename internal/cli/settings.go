package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	var modelFlag, queryFlag string
	var batchFlag, maxFlag int

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update scan settings",
		Long:  "Without flags, prints the current settings. With flags, updates and persists them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			settings, err := app.db.LoadSettings(cmd.Context())
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("model") {
				settings.Model = modelFlag
				changed = true
			}
			if cmd.Flags().Changed("query") {
				settings.Query = queryFlag
				changed = true
			}
			if cmd.Flags().Changed("batch-size") {
				settings.BatchSize = batchFlag
				changed = true
			}
			if cmd.Flags().Changed("max-messages") {
				settings.MaxMessages = maxFlag
				changed = true
			}

			if changed {
				settings = settings.Normalize()
				if err := app.db.SaveSettings(cmd.Context(), settings); err != nil {
					return err
				}
			}

			if jsonFlag {
				return printJSON(toJSONSettings(settings))
			}
			fmt.Printf("model:         %s\n", settings.Model)
			fmt.Printf("batch size:    %d\n", settings.BatchSize)
			fmt.Printf("max messages:  %d\n", settings.MaxMessages)
			fmt.Printf("query:         %s\n", settings.Query)
			if changed {
				fmt.Println("Saved.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "model name")
	cmd.Flags().StringVar(&queryFlag, "query", "", "search query")
	cmd.Flags().IntVar(&batchFlag, "batch-size", 0, "classification batch size")
	cmd.Flags().IntVar(&maxFlag, "max-messages", 0, "maximum messages per scan")
	return cmd
}
