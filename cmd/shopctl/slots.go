package main

import (
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/order"
	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	var at, timezone string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the pickup slots offered at a given time",
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid --timezone %q: %w", timezone, err)
			}

			now := time.Now().In(zone)
			if at != "" {
				t, err := time.ParseInLocation("15:04", at, zone)
				if err != nil {
					return fmt.Errorf("invalid --at %q, expected HH:MM", at)
				}
				now = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, zone)
			}

			slots := order.PickupSlots(now)
			if len(slots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pickup slots left today")
				return nil
			}

			for _, slot := range slots {
				fmt.Fprintln(cmd.OutOrStdout(), slot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "shop time of day as HH:MM (default now)")
	cmd.Flags().StringVar(&timezone, "timezone", order.DefaultZone, "shop time zone")

	return cmd
}
