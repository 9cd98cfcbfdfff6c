package main

import (
	"fmt"
	"os"

	"github.com/aretw0/kiosk/internal/cli"
	"github.com/aretw0/kiosk/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the template catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rt, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		render := tui.NewRenderer(cli.IsTerminal(os.Stdout))
		out, err := render(tui.RenderCatalogMarkdown(rt.Engine.Catalog()))
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
