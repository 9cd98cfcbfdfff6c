package cli

import (
	"context"
	"io"

	"github.com/aretw0/kiosk/internal/presentation/tui"
	"github.com/aretw0/kiosk/pkg/runner"
)

// ReplayOptions selects how a replay is presented.
type ReplayOptions struct {
	BoardID     string
	JSON        bool
	Rich        bool
	StopOnError bool
}

// Replay feeds the command stream in to the engine and writes results to out.
func Replay(ctx context.Context, rt *Runtime, in io.Reader, out io.Writer, opts ReplayOptions) (runner.Summary, error) {
	var handler runner.Handler
	if opts.JSON {
		handler = runner.NewJSONHandler(out)
	} else {
		handler = runner.NewTextHandler(out,
			runner.WithTextHandlerRenderer(tui.NewRenderer(opts.Rich)),
		)
	}

	r := runner.NewRunner(rt.Engine,
		runner.WithLogger(rt.Logger),
		runner.WithHandler(handler),
		runner.WithStopOnError(opts.StopOnError),
	)

	summary, err := r.Run(ctx, opts.BoardID, in)
	rt.Logger.Debug("Replay finished",
		"board", opts.BoardID,
		"applied", summary.Applied,
		"cancelled", summary.Cancelled,
		"rejected", summary.Rejected,
	)
	return summary, err
}
