package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/moodlog/internal/analytics"
	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/query"
)

func (a *app) statsCmd() *cobra.Command {
	var (
		params query.Params
		trend  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Average mood and bucket counts for a period",
		Example: `  moodlog stats --range week
  moodlog stats --range month --anchor 2026-05-31 --trend`,
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

			summary, err := svc.Summary(cmd.Context(), f)
			if err != nil {
				return err
			}
			var points []analytics.TrendPoint
			if trend {
				if points, err = svc.Trend(cmd.Context(), f); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				out := struct {
					analytics.Summary
					Trend []analytics.TrendPoint `json:"trend,omitempty"`
				}{summary, points}
				return printJSON(w, out)
			}

			if summary.Count == 0 {
				fmt.Fprintln(w, "No moods recorded in this period.")
				return nil
			}
			fmt.Fprintf(w, "Average:  %.1f %s\n", summary.Average, model.Emoji(int(summary.Average+0.5)))
			fmt.Fprintf(w, "Entries:  %d (min %d, max %d)\n", summary.Count, summary.Min, summary.Max)
			fmt.Fprintf(w, "Good:     %d\nNeutral:  %d\nBad:      %d\n", summary.Good, summary.Neutral, summary.Bad)
			if trend {
				fmt.Fprintln(w, "\nTrend:")
				for _, p := range points {
					fmt.Fprintf(w, "  %s  %s %d\n", p.Timestamp.In(a.loc).Format(timeLayout), model.Emoji(p.MoodValue), p.MoodValue)
				}
			}
			return nil
		},
	}
	filterFlags(cmd, &params)
	cmd.Flags().BoolVar(&trend, "trend", false, "also print the mood-over-time series")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) heatmapCmd() *cobra.Command {
	var (
		days   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "One mood per day for the last N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.Heatmap.Days
			}

			svc, closeDB, err := a.openService()
			if err != nil {
				return err
			}
			defer closeDB()

			heatmap, err := svc.Heatmap(cmd.Context(), days)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, heatmap)
			}

			// Walk every day of the window so gaps show up as blanks.
			today := query.StartOfDay(svc.Now(), a.loc)
			for i := days - 1; i >= 0; i-- {
				day := today.AddDate(0, 0, -i)
				key := day.Format(analytics.DateKeyLayout)
				if v, ok := heatmap[key]; ok {
					fmt.Fprintf(w, "%s %s  %s %2d\n", key, day.Weekday().String()[:3], model.Emoji(v), v)
				} else {
					fmt.Fprintf(w, "%s %s  ·\n", key, day.Weekday().String()[:3])
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 30, "window size in days (1-366)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
