package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/kiosk/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Apply a stream of JSON-Lines commands to a board",
	Long: `Reads one command per line from the file (or stdin) and applies it to a board.
Each line is a JSON object such as:

  {"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#0","destination_index":0}
  {"op":"add_list"}
  {"op":"show"}

"#N" refers to the list at 0-based position N of the board at the time the
line runs, the same numbers "show" prints. A fresh board's first list is "#0".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID, _ := cmd.Flags().GetString("board")
		jsonMode, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")

		_, rt, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open commands: %w", err)
			}
			defer f.Close()
			in = f
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		defer ctx.LogStop(rt.Logger)

		summary, err := cli.Replay(ctx, rt, in, os.Stdout, cli.ReplayOptions{
			BoardID:     boardID,
			JSON:        jsonMode,
			Rich:        !jsonMode && cli.IsTerminal(os.Stdout),
			StopOnError: strict,
		})
		if err != nil {
			return err
		}
		if !jsonMode {
			cli.PrintSystemMessage(os.Stderr, "applied %d, cancelled %d, rejected %d",
				summary.Applied, summary.Cancelled, summary.Rejected)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("board", "main", "Board to apply the commands to")
	replayCmd.Flags().Bool("json", false, "Emit NDJSON events instead of text")
	replayCmd.Flags().Bool("strict", false, "Stop at the first rejected command")
}
