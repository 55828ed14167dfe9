package cmd

import (
	"fmt"
	"strings"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/parser"
	"github.com/spf13/cobra"
)

var (
	addTitle string
	addDate  string
	addStart string
	addEnd   string
)

var addCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add an event",
	Long: `Add an event, either from a description such as

  weekcal add "tomorrow 2pm-3pm Dentist"

or from explicit fields:

  weekcal add --title Dentist --date 2025-03-11 --start 14:00 --end 15:00

Dates and times in the flags accept the same forms as descriptions.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "Event title")
	addCmd.Flags().StringVar(&addDate, "date", "", "Event date")
	addCmd.Flags().StringVar(&addStart, "start", "", "Start time")
	addCmd.Flags().StringVar(&addEnd, "end", "", "End time (default: start plus default_duration)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	p := parser.NewTimeParser()

	var (
		fields calendar.Fields
		err    error
	)
	if len(args) > 0 {
		if addTitle != "" || addDate != "" || addStart != "" || addEnd != "" {
			return fmt.Errorf("give either a description or --title/--date/--start/--end, not both")
		}
		fields, err = p.QuickAdd(strings.Join(args, " "), cfg.DefaultDuration)
	} else {
		fields, err = addFields(p)
	}
	if err != nil {
		return err
	}

	store, events, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := events.Create(fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %q on %s %s-%s [%s]\n",
		e.Title, e.Date,
		calendar.DisplayClock(e.StartTime, cfg.TimeFormat),
		calendar.DisplayClock(e.EndTime, cfg.TimeFormat),
		e.ID)
	return nil
}

// addFields builds validated fields from the flags.
func addFields(p *parser.TimeParser) (calendar.Fields, error) {
	f := calendar.Fields{Title: strings.TrimSpace(addTitle)}

	if addDate != "" {
		d, err := p.NormalizeDate(addDate)
		if err != nil {
			return f, fmt.Errorf("%w: %q", calendar.ErrInvalidDate, addDate)
		}
		f.Date = d
	}
	if addStart != "" {
		s, err := p.NormalizeTime(addStart)
		if err != nil {
			return f, fmt.Errorf("%w: %q", calendar.ErrInvalidTime, addStart)
		}
		f.StartTime = s
	}
	switch {
	case addEnd != "":
		e, err := p.NormalizeTime(addEnd)
		if err != nil {
			return f, fmt.Errorf("%w: %q", calendar.ErrInvalidTime, addEnd)
		}
		f.EndTime = e
	case f.StartTime != "":
		end := min(calendar.MinutesOf(f.StartTime)+cfg.DefaultDuration, calendar.MinutesPerDay)
		f.EndTime = calendar.FormatClock(end)
	}

	return f, calendar.Validate(f)
}
