package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/moodlog/internal/export"
	"github.com/sakif/moodlog/internal/query"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		params query.Params
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as CSV or JSON",
		Example: `  moodlog export > moods.csv
  moodlog export --format json --range last-year -o moods.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ff, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			f, err := query.ParseFilter(params, a.loc)
			if err != nil {
				return err
			}

			svc, closeDB, err := a.openService()
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := svc.ListRecords(cmd.Context(), f)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), ff, records)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := export.Write(file, ff, records); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(records), output)
			return nil
		},
	}
	filterFlags(cmd, &params)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}
