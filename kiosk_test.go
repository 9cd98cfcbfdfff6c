package kiosk_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/kiosk"
	"github.com/aretw0/kiosk/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/kiosk/pkg/adapters/redis"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dropTo(listID string, sourceList string, si, di int) domain.DropEvent {
	return domain.DropEvent{
		SourceListID:      sourceList,
		SourceIndex:       si,
		DestinationListID: &listID,
		DestinationIndex:  di,
	}
}

func TestFacade_Integration(t *testing.T) {
	repoPath := t.TempDir()
	notes := map[string]string{
		"headline.md": "---\nid: headline\norder: 1\n---\nHeadline",
		"quote.md":    "---\nid: quote\norder: 2\n---\nQuote",
	}
	for name, body := range notes {
		require.NoError(t, os.WriteFile(filepath.Join(repoPath, name), []byte(body), 0644))
	}

	engine, err := kiosk.New(repoPath)
	require.NoError(t, err, "failed to initialize engine with path %s", repoPath)
	assert.Equal(t, filepath.Base(repoPath), engine.Name)
	require.Equal(t, 2, engine.Catalog().Len())

	ctx := context.Background()
	board, err := engine.Board(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, 1, board.Len(), "new boards start with one empty list")

	dest := board.ListIDs()[0]
	out, err := engine.Drop(ctx, "main", dropTo(dest, domain.CatalogID, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.OpCopy, out.Operation)

	list, ok := out.After.List(dest)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Quote", list.Items[0].Content)
	assert.NotEqual(t, "quote", list.Items[0].InstanceID)

	// The stored board reflects the drop.
	stored, err := engine.Board(ctx, "main")
	require.NoError(t, err)
	assert.True(t, stored.Equal(out.After))
}

func TestFacade_DefaultCatalog(t *testing.T) {
	engine, err := kiosk.New("")
	require.NoError(t, err)

	var contents []string
	for _, item := range engine.Catalog().Items() {
		contents = append(contents, item.Content)
	}
	assert.Equal(t, memory.DefaultContents, contents)
	assert.Empty(t, engine.Name)
}

func TestFacade_MoveAndReorder(t *testing.T) {
	engine, err := kiosk.New("",
		kiosk.WithIDGenerator(ids.NewSequence("id")),
		kiosk.WithInitialLists(2),
	)
	require.NoError(t, err)

	ctx := context.Background()
	board, err := engine.Board(ctx, "b")
	require.NoError(t, err)
	left, right := board.ListIDs()[0], board.ListIDs()[1]

	for i := 0; i < 3; i++ {
		_, err := engine.Drop(ctx, "b", dropTo(left, domain.CatalogID, i, i))
		require.NoError(t, err)
	}

	out, err := engine.Drop(ctx, "b", dropTo(left, left, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, domain.OpReorder, out.Operation)
	l, _ := out.After.List(left)
	assert.Equal(t, []string{"Copy", "Image", "Headline"}, contentsOf(l))

	out, err = engine.Drop(ctx, "b", dropTo(right, left, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.OpMove, out.Operation)
	l, _ = out.After.List(left)
	r, _ := out.After.List(right)
	assert.Equal(t, []string{"Copy", "Headline"}, contentsOf(l))
	assert.Equal(t, []string{"Image"}, contentsOf(r))
	assert.Equal(t, 3, out.After.ItemCount())
}

func TestFacade_RejectionLeavesBoard(t *testing.T) {
	engine, err := kiosk.New("")
	require.NoError(t, err)

	ctx := context.Background()
	board, err := engine.Board(ctx, "b")
	require.NoError(t, err)
	dest := board.ListIDs()[0]

	_, err = engine.Drop(ctx, "b", dropTo(dest, domain.CatalogID, 99, 0))
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	assert.True(t, domain.IsRejection(err))

	after, err := engine.Board(ctx, "b")
	require.NoError(t, err)
	assert.True(t, after.Equal(board))
	assert.NoError(t, engine.Fault())
}

func TestFacade_DuplicateIDHaltsMutations(t *testing.T) {
	// Every generated id is the same, so the second copy collides with the first.
	engine, err := kiosk.New("",
		kiosk.WithCatalog(memory.NewLoader(domain.CatalogItem{TemplateID: "t1", Content: "Headline"})),
		kiosk.WithIDGenerator(ids.Func(func() string { return "same" })),
		kiosk.WithInitialLists(0),
	)
	require.NoError(t, err)

	ctx := context.Background()
	out, err := engine.AddList(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "same", out.ListID)

	_, err = engine.Drop(ctx, "b", dropTo("same", domain.CatalogID, 0, 0))
	require.NoError(t, err)
	assert.NoError(t, engine.Fault())

	_, err = engine.Drop(ctx, "b", dropTo("same", domain.CatalogID, 0, 1))
	require.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.True(t, domain.IsFault(err))
	require.Error(t, engine.Fault())

	_, err = engine.AddList(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrIntegrityFault)

	// Cancelled drops are still answered.
	out, err = engine.Drop(ctx, "b", domain.DropEvent{SourceListID: "same"})
	require.NoError(t, err)
	assert.Equal(t, domain.OpCancel, out.Operation)
}

func TestFacade_ConcurrentDropsAreSerialized(t *testing.T) {
	engine, err := kiosk.New("")
	require.NoError(t, err)

	ctx := context.Background()
	board, err := engine.Board(ctx, "b")
	require.NoError(t, err)
	dest := board.ListIDs()[0]

	var wg sync.WaitGroup
	drops := 20
	for i := 0; i < drops; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Drop(ctx, "b", dropTo(dest, domain.CatalogID, 0, 0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	after, err := engine.Board(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, drops, after.ItemCount())
}

func TestFacade_LifecycleHooks(t *testing.T) {
	var (
		mu       sync.Mutex
		ops      []domain.Operation
		rejected int
	)
	hooks := domain.LifecycleHooks{
		OnOperation: func(ctx context.Context, ev *domain.OperationEvent) {
			mu.Lock()
			defer mu.Unlock()
			ops = append(ops, ev.Operation)
		},
		OnRejected: func(ctx context.Context, ev *domain.OperationEvent, err error) {
			mu.Lock()
			defer mu.Unlock()
			rejected++
		},
	}

	engine, err := kiosk.New("", kiosk.WithLifecycleHooks(hooks), kiosk.WithInitialLists(0))
	require.NoError(t, err)

	ctx := context.Background()
	out, err := engine.AddList(ctx, "b")
	require.NoError(t, err)
	_, err = engine.Drop(ctx, "b", dropTo(out.ListID, domain.CatalogID, 0, 0))
	require.NoError(t, err)
	_, err = engine.Drop(ctx, "b", dropTo(out.ListID, domain.CatalogID, 0, 5))
	require.Error(t, err)

	assert.Equal(t, []domain.Operation{domain.OpAddList, domain.OpCopy}, ops)
	assert.Equal(t, 1, rejected)
}

func TestFacade_RedisStoreSharedBetweenEngines(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redisAdapter.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })
	locker := redisAdapter.NewLocker(store.Client(), store.Prefix())

	catalog := memory.NewLoader(domain.CatalogItem{TemplateID: "t1", Content: "Headline"})
	a, err := kiosk.New("", kiosk.WithCatalog(catalog), kiosk.WithStore(store), kiosk.WithLocker(locker))
	require.NoError(t, err)
	b, err := kiosk.New("", kiosk.WithCatalog(catalog), kiosk.WithStore(store), kiosk.WithLocker(locker))
	require.NoError(t, err)

	ctx := context.Background()
	board, err := a.Board(ctx, "shared")
	require.NoError(t, err)
	dest := board.ListIDs()[0]

	_, err = b.Drop(ctx, "shared", dropTo(dest, domain.CatalogID, 0, 0))
	require.NoError(t, err)

	seen, err := a.Board(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 1, seen.ItemCount())

	boards, err := a.Boards(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, boards)

	require.NoError(t, a.Reset(ctx, "shared"))
	fresh, err := b.Board(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.ItemCount())
}

func TestFacade_RedisBoardIDsStayIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redisAdapter.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })
	locker := redisAdapter.NewLocker(store.Client(), store.Prefix())

	engine, err := kiosk.New("", kiosk.WithStore(store), kiosk.WithLocker(locker))
	require.NoError(t, err)

	ctx := context.Background()
	for _, id := range []string{"lock:main", "index", "boards"} {
		_, err := engine.Board(ctx, id)
		require.NoError(t, err, "opening %q", id)
	}

	opCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_, err = engine.AddList(opCtx, "main")
	require.NoError(t, err)

	boards, err := engine.Boards(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lock:main", "index", "boards", "main"}, boards)
}

// flakyStore fails every save once broken is set.
type flakyStore struct {
	*memory.Store
	mu     sync.Mutex
	broken bool
}

func (s *flakyStore) Save(ctx context.Context, board *domain.Board) error {
	s.mu.Lock()
	broken := s.broken
	s.mu.Unlock()
	if broken {
		return errors.New("store unavailable")
	}
	return s.Store.Save(ctx, board)
}

func TestFacade_FailedSaveIsNotReported(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore()}
	var ops, commits int
	hooks := domain.LifecycleHooks{
		OnOperation: func(ctx context.Context, ev *domain.OperationEvent) { ops++ },
	}

	engine, err := kiosk.New("", kiosk.WithStore(store), kiosk.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	engine.OnCommit(func(ctx context.Context, out *domain.Outcome) { commits++ })

	ctx := context.Background()
	board, err := engine.Board(ctx, "b")
	require.NoError(t, err)

	store.mu.Lock()
	store.broken = true
	store.mu.Unlock()

	_, err = engine.Drop(ctx, "b", dropTo(board.ListIDs()[0], domain.CatalogID, 0, 0))
	require.Error(t, err)
	assert.Equal(t, 0, ops)
	assert.Equal(t, 0, commits)

	store.mu.Lock()
	store.broken = false
	store.mu.Unlock()

	_, err = engine.Drop(ctx, "b", dropTo(board.ListIDs()[0], domain.CatalogID, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, ops)
	assert.Equal(t, 1, commits)
}

func TestFacade_CommitsArriveInOrder(t *testing.T) {
	engine, err := kiosk.New("")
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		counts []int
	)
	engine.OnCommit(func(ctx context.Context, out *domain.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		counts = append(counts, out.After.ItemCount())
	})

	ctx := context.Background()
	board, err := engine.Board(ctx, "b")
	require.NoError(t, err)
	dest := board.ListIDs()[0]

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Drop(ctx, "b", dropTo(dest, domain.CatalogID, 0, 0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := make([]int, 20)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, counts)
}

func TestFacade_WatchSeesOnlyLaterCommits(t *testing.T) {
	engine, err := kiosk.New("")
	require.NoError(t, err)
	ctx := context.Background()

	var seen []*domain.Outcome
	var snapshot *domain.Board
	require.NoError(t, engine.Watch(ctx, "b", func(board *domain.Board) {
		snapshot = board
		engine.OnCommit(func(ctx context.Context, out *domain.Outcome) { seen = append(seen, out) })
	}))
	require.NotNil(t, snapshot)
	assert.Equal(t, 1, snapshot.Len())

	out, err := engine.AddList(ctx, "b")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Same(t, out, seen[0])
}

func TestFacade_ResetFiresHook(t *testing.T) {
	var reset []string
	hooks := domain.LifecycleHooks{
		OnReset: func(ctx context.Context, boardID string) { reset = append(reset, boardID) },
	}
	engine, err := kiosk.New("", kiosk.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = engine.Board(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, engine.Reset(ctx, "b"))
	assert.Equal(t, []string{"b"}, reset)
}

func contentsOf(l domain.List) []string {
	out := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, item.Content)
	}
	return out
}
