package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/kiosk/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces all keys written by the store and the locker.
const DefaultPrefix = "kiosk:"

// Key kinds under the prefix. Board ids only ever follow boardSegment,
// so no id can reach the index or a lock key.
const (
	boardSegment = "board:"
	indexSegment = "boards"
	lockSegment  = "lock:"
)

// Store implements ports.BoardStore using Redis.
// Boards are stored as JSON snapshots; a sorted set indexes them by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for boards.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for boards.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share the connection.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix in use.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) key(boardID string) string {
	return s.prefix + boardSegment + boardID
}

func (s *Store) indexKey() string {
	return s.prefix + indexSegment
}

// Save writes the board snapshot and refreshes its index entry in one pipeline.
func (s *Store) Save(ctx context.Context, board *domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(board.ID), data, s.ttl)

	// Score = expiry time; boards without TTL get a far-future score.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: board.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the board from Redis.
func (s *Store) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	val, err := s.client.Get(ctx, s.key(boardID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var board domain.Board
	if err := json.Unmarshal(val, &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	return &board, nil
}

// Delete removes the board and its index entry.
func (s *Store) Delete(ctx context.Context, boardID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(boardID))
	pipe.ZRem(ctx, s.indexKey(), boardID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live boards, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired boards: %w", err)
	}

	boards, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
