package runner

import (
	"testing"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Op
		wantErr error
	}{
		{"add list", `{"op":"add_list"}`, OpAddList, nil},
		{"show", `{"op":"show"}`, OpShow, nil},
		{"catalog", `{"op":"catalog"}`, OpCatalog, nil},
		{"drop", `{"op":"drop","source_list_id":"ITEMS","source_index":1,"destination_list_id":"#0"}`, OpDrop, nil},
		{"drop without source", `{"op":"drop","source_index":1}`, "", ErrInvalidLine},
		{"missing op", `{}`, "", ErrInvalidLine},
		{"unknown op", `{"op":"delete"}`, "", ErrUnknownOp},
		{"unknown field", `{"op":"show","extra":true}`, "", ErrInvalidLine},
		{"not json", `show`, "", ErrInvalidLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Op)
		})
	}
}

func TestParseCommand_NullDestination(t *testing.T) {
	cmd, err := ParseCommand(`{"op":"drop","source_list_id":"a","source_index":0,"destination_list_id":null}`)
	require.NoError(t, err)
	assert.Nil(t, cmd.DestinationListID)
}

func TestCommand_DropEvent(t *testing.T) {
	board, err := domain.NewBoard("b").Append(domain.List{ID: "first"})
	require.NoError(t, err)
	board, err = board.Append(domain.List{ID: "second"})
	require.NoError(t, err)

	dest := "#1"
	cmd := Command{Op: OpDrop, SourceListID: "#0", SourceIndex: 2, DestinationListID: &dest, DestinationIndex: 3}
	event, err := cmd.DropEvent(board)
	require.NoError(t, err)
	assert.Equal(t, "first", event.SourceListID)
	assert.Equal(t, "second", event.Destination())
	assert.Equal(t, 2, event.SourceIndex)
	assert.Equal(t, 3, event.DestinationIndex)

	// Plain ids and the catalog pass through.
	cmd = Command{Op: OpDrop, SourceListID: domain.CatalogID, DestinationListID: &[]string{"second"}[0]}
	event, err = cmd.DropEvent(board)
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogID, event.SourceListID)
	assert.Equal(t, "second", event.Destination())

	// No destination stays cancelled.
	event, err = Command{Op: OpDrop, SourceListID: "#0"}.DropEvent(board)
	require.NoError(t, err)
	assert.True(t, event.Cancelled())

	_, err = Command{Op: OpDrop, SourceListID: "#5"}.DropEvent(board)
	assert.ErrorIs(t, err, domain.ErrListNotFound)

	_, err = Command{Op: OpDrop, SourceListID: "#x"}.DropEvent(board)
	assert.ErrorIs(t, err, ErrInvalidLine)
}
