package cmd

import (
	"fmt"
	"io"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/parser"
	"github.com/cwarden/weekcal/internal/week"
	"github.com/spf13/cobra"
)

var (
	listDate string
	listWeek bool
	listIDs  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List events for a day or week and exit",
	Long: `List the events of one day (today unless --date is given) in a simple
text format. With --week the whole week containing that day is listed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listDate, "date", "d", "today", "Day to list: 2025-03-10, tomorrow, next mon, ...")
	listCmd.Flags().BoolVarP(&listWeek, "week", "w", false, "List the whole week")
	listCmd.Flags().BoolVar(&listIDs, "ids", false, "Show event ids")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	day, err := parser.NewTimeParser().ParseDateExpr(listDate)
	if err != nil {
		return err
	}

	store, events, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if !listWeek {
		fmt.Fprintf(out, "Events for %s:\n", day.Format(cfg.DateFormat))
		key := calendar.FormatDate(day)
		printEvents(out, events.Between(key, key), false)
		return nil
	}

	start := week.Start(day, cfg.WeekStartDay)
	from := calendar.FormatDate(start)
	to := calendar.FormatDate(start.AddDate(0, 0, 6))
	fmt.Fprintf(out, "Events for %s:\n", week.Label(start))
	printEvents(out, events.Between(from, to), true)
	return nil
}

// printEvents writes one line per event. Events are expected in date and
// start order.
func printEvents(w io.Writer, events []calendar.Event, withDate bool) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	lastDate := ""
	for _, e := range events {
		if withDate && e.Date != lastDate {
			lastDate = e.Date
			label := e.Date
			if t, err := calendar.ParseDate(e.Date); err == nil {
				label = t.Format(cfg.DateFormat)
			}
			fmt.Fprintf(w, "%s\n", label)
		}

		span := fmt.Sprintf("%s - %s",
			calendar.DisplayClock(e.StartTime, cfg.TimeFormat),
			calendar.DisplayClock(e.EndTime, cfg.TimeFormat))
		line := fmt.Sprintf("  %s  %s", span, e.Title)
		if listIDs {
			line += fmt.Sprintf("  [%s]", e.ID)
		}
		fmt.Fprintln(w, line)
	}
}
