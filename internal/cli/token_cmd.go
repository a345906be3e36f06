package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/cli/formatter"
)

func newTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}

	var userID, label string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := auth.IssueToken(cmd.Context(), app.Tokens, app.Users, userID, label)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Store this token now; it cannot be shown again."))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&userID, "user", "", "user id")
	issue.Flags().StringVar(&label, "label", "", "free-form label")
	_ = issue.MarkFlagRequired("user")

	revoke := &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.RevokeToken(cmd.Context(), app.Tokens, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ Token revoked"))
			return nil
		},
	}

	cmd.AddCommand(issue, revoke)
	return cmd
}
