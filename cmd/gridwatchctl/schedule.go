package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gridwatch/internal/core/outage"
	"gridwatch/internal/modkit/module"
	"gridwatch/internal/services/outage/domain"
	outagemod "gridwatch/internal/services/outage/module"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Prints one day of the outage schedule",
		Long:  "Fetches the outage feed once and prints the intervals of one group for today, tomorrow or a YYYY-MM-DD date.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, _ := cmd.Flags().GetString("day")
			group, _ := cmd.Flags().GetString("group")

			m := outagemod.New(newDeps(), outagemod.Options{})
			svc := module.MustPortsOf[outagemod.Ports](m).Service
			if err := svc.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("fetch outage feed: %w", err)
			}
			d, err := svc.Day(cmd.Context(), day, group)
			if err != nil {
				return err
			}
			printDay(cmd, d)
			return nil
		},
	}
	cmd.Flags().String("day", "today", "today, tomorrow or YYYY-MM-DD")
	cmd.Flags().String("group", "", "group such as 5.2 or GPV5.2 (default OUTAGE_GROUP)")
	return cmd
}

func printDay(cmd *cobra.Command, d domain.Day) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %s (%s)\n", d.Weekday, d.Label, d.Group)
	if !d.HasData {
		fmt.Fprintln(out, d.Note)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FROM\tTO\tPOWER\t")
	for _, iv := range d.Intervals {
		power := "yes"
		if iv.State == outage.Absent {
			power = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", iv.StartClock(), iv.EndClock(), power)
	}
	w.Flush()
	fmt.Fprintf(out, "availability %d%%\n", d.Stats.AvailabilityPct)
}
