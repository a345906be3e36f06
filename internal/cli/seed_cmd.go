package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stefanorainone/sales-management/internal/cli/formatter"
	"github.com/stefanorainone/sales-management/internal/importer"
)

func newSeedCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, clients, deals and instructions from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := importer.LoadSeedFile(app.Fs, file)
			if err != nil {
				return err
			}
			if errs := importer.ValidateSeed(seed); len(errs) > 0 {
				out := cmd.ErrOrStderr()
				for _, e := range errs {
					fmt.Fprintln(out, formatter.StyleRed.Render("✖ ")+e.Error())
				}
				return fmt.Errorf("seed file has %d errors", len(errs))
			}

			counts, err := importer.Apply(cmd.Context(), app.UoW, importer.Convert(seed, time.Now().UTC()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d users, %d clients, %d deals, %d relationships, %d activities, %d instructions\n",
				formatter.StyleGreen.Render("✔ Seeded"),
				counts.Users, counts.Clients, counts.Deals, counts.Relationships, counts.Activities, counts.Instructions)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
