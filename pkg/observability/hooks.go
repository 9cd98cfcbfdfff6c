package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/kiosk/pkg/domain"
)

// LoggingHooks logs operations and resets at Info, rejections at Warn and faults at Error.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnOperation: func(ctx context.Context, ev *domain.OperationEvent) {
			logger.Info("operation",
				"board_id", ev.BoardID,
				"operation", ev.Operation,
				"source", ev.SourceListID,
				"destination", ev.DestinationListID,
				"instance_id", ev.InstanceID,
				"items", ev.ItemCount,
			)
		},
		OnRejected: func(ctx context.Context, ev *domain.OperationEvent, err error) {
			logger.Warn("operation rejected",
				"board_id", ev.BoardID,
				"operation", ev.Operation,
				"err", err,
			)
		},
		OnFault: func(ctx context.Context, ev *domain.OperationEvent, err error) {
			logger.Error("integrity fault",
				"board_id", ev.BoardID,
				"operation", ev.Operation,
				"err", err,
			)
		},
		OnReset: func(ctx context.Context, boardID string) {
			logger.Info("board reset", "board_id", boardID)
		},
	}
}

// Chain merges several hook sets; each callback runs in the order given.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.OnOperation != nil {
			prev, next := out.OnOperation, h.OnOperation
			out.OnOperation = func(ctx context.Context, ev *domain.OperationEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				next(ctx, ev)
			}
		}
		if h.OnRejected != nil {
			prev, next := out.OnRejected, h.OnRejected
			out.OnRejected = func(ctx context.Context, ev *domain.OperationEvent, err error) {
				if prev != nil {
					prev(ctx, ev, err)
				}
				next(ctx, ev, err)
			}
		}
		if h.OnFault != nil {
			prev, next := out.OnFault, h.OnFault
			out.OnFault = func(ctx context.Context, ev *domain.OperationEvent, err error) {
				if prev != nil {
					prev(ctx, ev, err)
				}
				next(ctx, ev, err)
			}
		}
		if h.OnReset != nil {
			prev, next := out.OnReset, h.OnReset
			out.OnReset = func(ctx context.Context, boardID string) {
				if prev != nil {
					prev(ctx, boardID)
				}
				next(ctx, boardID)
			}
		}
	}
	return out
}
