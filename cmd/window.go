package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/services"
)

// PrintWindows writes the previous and current windows at the given instant together
// with when each window's round is visible
func PrintWindows(w io.Writer, scheduler *services.RoundScheduler, at time.Time) error {
	at = at.UTC()
	rows := []struct {
		label  string
		window entities.Window
	}{
		{label: "previous", window: scheduler.PreviousWindow(at)},
		{label: "current", window: scheduler.WindowAt(at)},
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "at %s\n", at.Format(time.RFC3339))
	fmt.Fprintln(tw, "WINDOW\tINDEX\tKEY\tVISIBLE FROM\tVISIBLE UNTIL\tSTATE")
	for _, row := range rows {
		round := scheduler.NewRound(row.window)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			row.label,
			row.window.Index,
			round.Key,
			round.VisibleFrom.Format(time.RFC3339),
			round.VisibleUntil.Format(time.RFC3339),
			round.StateAt(at),
		)
	}
	return tw.Flush()
}
