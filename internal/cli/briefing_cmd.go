package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stefanorainone/sales-management/internal/cli/formatter"
)

func newBriefingCmd(app *App) *cobra.Command {
	var userID, date string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Print the daily briefing for a seller",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			req, err := app.Services.Loader.Load(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			b, err := app.Services.Briefings.GenerateDailyBriefing(cmd.Context(), *req)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBriefing(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "seller id")
	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of the styled view")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
