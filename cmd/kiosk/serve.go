package main

import (
	"context"
	"os"

	"github.com/aretw0/kiosk/internal/cli"
	"github.com/aretw0/kiosk/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the Kiosk engine in server mode, exposing a JSON API over HTTP,
a Server-Sent Events stream of board changes and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, rt, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		if cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		defer ctx.LogStop(rt.Logger)

		return cli.Serve(ctx, cli.NewHTTPServer(rt, cfg.HTTP.Port), rt)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
