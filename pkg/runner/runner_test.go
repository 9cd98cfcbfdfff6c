package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/kiosk"
	"github.com/aretw0/kiosk/pkg/adapters/memory"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ids"
	"github.com/aretw0/kiosk/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, gen func() string) *kiosk.Engine {
	t.Helper()
	opts := []kiosk.Option{
		kiosk.WithCatalog(memory.NewLoader(
			domain.CatalogItem{TemplateID: "t-headline", Content: "Headline"},
			domain.CatalogItem{TemplateID: "t-copy", Content: "Copy"},
			domain.CatalogItem{TemplateID: "t-image", Content: "Image"},
		)),
		kiosk.WithIDGenerator(ids.NewSequence("id")),
	}
	if gen != nil {
		opts = append(opts, kiosk.WithIDGenerator(ids.Func(gen)))
	}
	eng, err := kiosk.New("", opts...)
	require.NoError(t, err)
	return eng
}

func decodeEvents(t *testing.T, buf *bytes.Buffer) []runner.Event {
	t.Helper()
	var events []runner.Event
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var raw map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &raw), line)
		ev := runner.Event{Type: raw["type"].(string)}
		if v, ok := raw["line"].(float64); ok {
			ev.Line = int(v)
		}
		if v, ok := raw["reason"].(string); ok {
			ev.Reason = v
		}
		events = append(events, ev)
	}
	return events
}

const script = `
# build two lists and fill the first
{"op":"add_list"}
{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#0","destination_index":0}
{"op":"drop","source_list_id":"ITEMS","source_index":2,"destination_list_id":"#0","destination_index":1}

// reorder, then move to the second list
{"op":"drop","source_list_id":"#0","source_index":0,"destination_list_id":"#0","destination_index":1}
{"op":"drop","source_list_id":"#0","source_index":0,"destination_list_id":"#1","destination_index":0}
{"op":"drop","source_list_id":"#1","source_index":0,"destination_list_id":null}
{"op":"show"}
`

func TestRunner_Replay(t *testing.T) {
	eng := newEngine(t, nil)
	var out bytes.Buffer
	r := runner.NewRunner(eng, runner.WithHandler(runner.NewJSONHandler(&out)))

	summary, err := r.Run(context.Background(), "main", strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, runner.Summary{Applied: 5, Cancelled: 1}, summary)

	board, err := eng.Board(context.Background(), "main")
	require.NoError(t, err)
	first, _ := board.ListAt(0)
	second, _ := board.ListAt(1)
	// Headline, Image -> reorder -> Image, Headline -> move Image away.
	assert.Equal(t, []domain.BoardItem{{InstanceID: "id-3", Content: "Headline"}}, first.Items)
	assert.Equal(t, []domain.BoardItem{{InstanceID: "id-4", Content: "Image"}}, second.Items)

	events := decodeEvents(t, &out)
	require.Len(t, events, 7)
	assert.Equal(t, "outcome", events[0].Type)
	assert.Equal(t, 3, events[0].Line)
	assert.Equal(t, "board", events[6].Type)
}

func TestRunner_ListRefsAreZeroBased(t *testing.T) {
	eng := newEngine(t, nil)
	r := runner.NewRunner(eng, runner.WithHandler(runner.NewJSONHandler(io.Discard)))

	// The first list of a fresh board is "#0"; "#1" does not exist yet.
	in := `{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#0","destination_index":0}
{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#1","destination_index":0}
`
	summary, err := r.Run(context.Background(), "fresh", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, runner.Summary{Applied: 1, Rejected: 1}, summary)
}

func TestRunner_RejectionsContinue(t *testing.T) {
	eng := newEngine(t, nil)
	var out bytes.Buffer
	r := runner.NewRunner(eng, runner.WithHandler(runner.NewJSONHandler(&out)))

	in := strings.Join([]string{
		`{"op":"drop","source_list_id":"ITEMS","source_index":9,"destination_list_id":"#0"}`,
		`{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#3"}`,
		`not json`,
		`{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#0"}`,
	}, "\n")

	summary, err := r.Run(context.Background(), "main", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, runner.Summary{Applied: 1, Rejected: 3}, summary)

	events := decodeEvents(t, &out)
	require.Len(t, events, 4)
	assert.Equal(t, "index_out_of_range", events[0].Reason)
	assert.Equal(t, "list_not_found", events[1].Reason)
	assert.Equal(t, "other", events[2].Reason)
	assert.Equal(t, "outcome", events[3].Type)
}

func TestRunner_StopOnError(t *testing.T) {
	eng := newEngine(t, nil)
	r := runner.NewRunner(eng,
		runner.WithHandler(runner.NewJSONHandler(&bytes.Buffer{})),
		runner.WithStopOnError(true),
	)

	in := `{"op":"drop","source_list_id":"ITEMS","source_index":9,"destination_list_id":"#0"}
{"op":"add_list"}`
	summary, err := r.Run(context.Background(), "main", strings.NewReader(in))
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	assert.Equal(t, runner.Summary{Rejected: 1}, summary)
}

func TestRunner_FaultHalts(t *testing.T) {
	eng := newEngine(t, func() string { return "same" })
	var out bytes.Buffer
	r := runner.NewRunner(eng, runner.WithHandler(runner.NewJSONHandler(&out)))

	in := `{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#0"}
{"op":"drop","source_list_id":"ITEMS","source_index":0,"destination_list_id":"#0"}
{"op":"add_list"}`
	summary, err := r.Run(context.Background(), "main", strings.NewReader(in))
	require.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, runner.Summary{Applied: 1, Rejected: 1}, summary)

	events := decodeEvents(t, &out)
	require.Len(t, events, 2)
	assert.Equal(t, "integrity_fault", events[1].Reason)
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(newEngine(t, nil), runner.WithHandler(runner.NewJSONHandler(&bytes.Buffer{})))
	_, err := r.Run(ctx, "main", strings.NewReader(`{"op":"show"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_TextHandler(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(newEngine(t, nil), runner.WithHandler(runner.NewTextHandler(&out)))

	in := `{"op":"catalog"}
{"op":"drop","source_list_id":"ITEMS","source_index":1,"destination_list_id":"#0"}
{"op":"drop","source_list_id":"#0","source_index":0}
{"op":"drop","source_list_id":"#0","source_index":4,"destination_list_id":"#0"}
{"op":"add_list"}
{"op":"show"}`
	_, err := r.Run(context.Background(), "main", strings.NewReader(in))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "## Catalog (`ITEMS`)")
	assert.Contains(t, text, "[2] copy id-2")
	assert.Contains(t, text, "[3] drop cancelled, board unchanged")
	assert.Contains(t, text, "[4] rejected: ")
	assert.Contains(t, text, "[5] added list id-3")
	assert.Contains(t, text, "- **[0]** Copy `id-2`")
}
