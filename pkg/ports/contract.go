package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBoardStoreContract runs a suite of tests to verify that a BoardStore implementation
// adheres to the defined interface contract.
func RunBoardStoreContract(t *testing.T, store BoardStore) {
	ctx := context.Background()
	boardID := "contract-test-board-" + time.Now().Format("20060102150405")

	newBoard := func(id string) *domain.Board {
		b := domain.NewBoard(id)
		b, err := b.Append(domain.List{ID: "L1", Items: []domain.BoardItem{
			{InstanceID: id + "-a", Content: "Headline"},
			{InstanceID: id + "-b", Content: "Quote"},
		}})
		require.NoError(t, err)
		b, err = b.Append(domain.List{ID: "L2"})
		require.NoError(t, err)
		return b
	}

	t.Run("Save and Load", func(t *testing.T) {
		board := newBoard(boardID)

		err := store.Save(ctx, board)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, boardID)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, board.Equal(loaded), "loaded board should equal the saved one")
		assert.Equal(t, []string{"L1", "L2"}, loaded.ListIDs(), "list order must survive storage")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		board := newBoard(boardID)
		require.NoError(t, store.Save(ctx, board))

		next, err := board.Replace(domain.List{ID: "L1"})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, next))

		loaded, err := store.Load(ctx, boardID)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.ItemCount())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+boardID)
		assert.ErrorIs(t, err, domain.ErrBoardNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newBoard(boardID))
		require.NoError(t, err)

		err = store.Delete(ctx, boardID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, boardID)
		assert.ErrorIs(t, err, domain.ErrBoardNotFound, "Load after Delete should return ErrBoardNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := boardID + "-1"
		id2 := boardID + "-2"
		_ = store.Save(ctx, newBoard(id1))
		_ = store.Save(ctx, newBoard(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		boards, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, boards, id1)
		assert.Contains(t, boards, id2)
	})
}
