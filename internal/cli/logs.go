package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/urbanmobility/internal/audit"
)

func (a *App) Logs(ctx context.Context, args []string) error {
	var (
		events []audit.Event
		err    error
	)
	switch {
	case len(args) == 0:
		events, err = a.events.Events(ctx)
	case len(args) == 1 && args[0] == "suspicious":
		events, err = a.events.Suspicious(ctx)
	default:
		return usage("logs [suspicious]")
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tTIME\tUSER\tACTION\tDETAIL\tSUSPICIOUS")
	for i, e := range events {
		sus := "No"
		if e.Suspicious {
			sus = "Yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, e.Timestamp.Format(audit.TimestampLayout), e.Actor, e.Action, e.Detail, sus)
	}
	return tw.Flush()
}
