package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stefanorainone/sales-management/internal/cli/formatter"
	"github.com/stefanorainone/sales-management/internal/service"
)

func newAnalyticsCmd(app *App) *cobra.Command {
	var userID, period string
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize a seller's task history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := service.ParseTimePeriod(period)
			if err != nil {
				return err
			}
			a, err := app.Services.Analytics.Compute(cmd.Context(), userID, p)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAnalytics(a))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "seller id")
	cmd.Flags().StringVar(&period, "period", "week", "today, week, month or all")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
