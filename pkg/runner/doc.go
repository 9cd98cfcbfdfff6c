/*
Package runner replays a stream of board commands against a Kiosk engine.

Commands are JSON objects, one per line, standing in for the drag coordinator
of an interactive client:

	{"op":"add_list"}
	{"op":"drop","source_list_id":"ITEMS","source_index":2,"destination_list_id":"#0","destination_index":0}
	{"op":"drop","source_list_id":"#0","source_index":0,"destination_list_id":null}
	{"op":"show"}

List ids may be given as "#N", the list at 0-based position N of the board when
the command runs; "show" prints the same numbers. Blank lines and lines starting with "#" or "//" are skipped.

Results are reported through a Handler: TextHandler for people, JSONHandler
for programs. Rejected commands are reported and skipped; an integrity fault
stops the run.

# Usage

	r := runner.NewRunner(engine,
		runner.WithHandler(runner.NewJSONHandler(os.Stdout)),
	)

	summary, err := r.Run(ctx, "main", os.Stdin)
*/
package runner
