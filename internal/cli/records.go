package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/query"
)

const timeLayout = "2006-01-02 15:04"

func (a *app) addCmd() *cobra.Command {
	var (
		note string
		at   string
	)
	cmd := &cobra.Command{
		Use:   "add <mood 1-10>",
		Short: "Record a mood",
		Example: `  moodlog add 7 --note "Had coffee today"
  moodlog add 4 --at 2026-06-14T21:30:00+02:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return apperror.ValidationFailed("moodValue", "mood must be a whole number from 1 to 10")
			}

			var ts *time.Time
			if at != "" {
				t, err := query.ParseDate("at", at, a.loc)
				if err != nil {
					return err
				}
				ts = &t
			}
			var notePtr *string
			if cmd.Flags().Changed("note") {
				notePtr = &note
			}

			svc, closeDB, err := a.openService()
			if err != nil {
				return err
			}
			defer closeDB()

			rec, err := svc.CreateRecord(cmd.Context(), value, notePtr, ts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %d (%s) as %s\n",
				rec.Emoji(), rec.MoodValue, rec.Description(), rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	cmd.Flags().StringVar(&at, "at", "", "when (RFC 3339 or YYYY-MM-DD), default now")
	return cmd
}

// filterFlags binds the shared filter flags to p.
func filterFlags(cmd *cobra.Command, p *query.Params) {
	f := cmd.Flags()
	f.StringVarP(&p.Search, "search", "s", "", "only records whose note contains this text")
	f.StringVarP(&p.Bucket, "bucket", "b", "", "all, bad (1-4), neutral (5) or good (6-10)")
	f.StringVarP(&p.Range, "range", "r", "", "all, last-month, last-year, day, week, month, year or custom")
	f.StringVar(&p.Anchor, "anchor", "", "reference day for day/week/month/year (default today)")
	f.StringVar(&p.From, "from", "", "custom range start (inclusive)")
	f.StringVar(&p.To, "to", "", "custom range end (exclusive)")
	f.StringVar(&p.Order, "order", "", "newest (default) or oldest")
}

func (a *app) listCmd() *cobra.Command {
	var (
		params query.Params
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "history"},
		Short:   "List recorded moods",
		Example: `  moodlog list --search coffee --bucket good
  moodlog list --range last-month --order oldest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if asJSON {
				return printJSON(cmd.OutOrStdout(), records)
			}
			a.printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	filterFlags(cmd, &params)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := a.openService()
			if err != nil {
				return err
			}
			defer closeDB()

			rec, err := svc.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ID:    %s\n", rec.ID)
			fmt.Fprintf(w, "When:  %s\n", rec.Timestamp.In(a.loc).Format(timeLayout))
			fmt.Fprintf(w, "Mood:  %s %d (%s)\n", rec.Emoji(), rec.MoodValue, rec.Description())
			if rec.HasNote() {
				fmt.Fprintf(w, "Note:  %s\n", rec.NoteText())
			}
			return nil
		},
	}
}

func (a *app) noteCmd() *cobra.Command {
	var clearNote bool
	cmd := &cobra.Command{
		Use:   "note <id> [text]",
		Short: "Replace or clear the note of a record",
		Example: `  moodlog note d1q4n8... "Actually it was tea"
  moodlog note d1q4n8... --clear`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var note *string
			switch {
			case clearNote && len(args) == 2:
				return apperror.ValidationFailed("note", "give either a note or --clear, not both")
			case !clearNote && len(args) == 1:
				return apperror.ValidationFailed("note", "give the new note text, or --clear")
			case !clearNote:
				note = &args[1]
			}

			svc, closeDB, err := a.openService()
			if err != nil {
				return err
			}
			defer closeDB()

			rec, err := svc.UpdateNote(cmd.Context(), args[0], note)
			if err != nil {
				return err
			}
			if rec.HasNote() {
				fmt.Fprintf(cmd.OutOrStdout(), "Note updated on %s\n", rec.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Note cleared on %s\n", rec.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearNote, "clear", false, "remove the note")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete records permanently",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := a.openService()
			if err != nil {
				return err
			}
			defer closeDB()

			for _, id := range args {
				if err := svc.DeleteRecord(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}

// printRecords writes a history table, one line per record.
func (a *app) printRecords(w io.Writer, records []model.MoodRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No moods found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s %2d\t%s\t%s\n",
			r.Timestamp.In(a.loc).Format(timeLayout),
			r.Emoji(), r.MoodValue,
			r.ID,
			oneLine(r.NoteText()),
		)
	}
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// oneLine flattens a multi-line note for table output.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
