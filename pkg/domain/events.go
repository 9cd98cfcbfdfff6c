package domain

import (
	"context"
	"time"
)

// OperationEvent describes an operation the engine applied or rejected.
type OperationEvent struct {
	Timestamp         time.Time `json:"timestamp"`
	BoardID           string    `json:"board_id"`
	Operation         Operation `json:"operation"`
	SourceListID      string    `json:"source_list_id,omitempty"`
	DestinationListID string    `json:"destination_list_id,omitempty"`
	InstanceID        string    `json:"instance_id,omitempty"`
	ItemCount         int       `json:"item_count"`
	ListCount         int       `json:"list_count"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil. OnOperation only fires for changes that were saved.
type LifecycleHooks struct {
	OnOperation func(context.Context, *OperationEvent)
	OnRejected  func(context.Context, *OperationEvent, error)
	OnFault     func(context.Context, *OperationEvent, error)
	// OnReset fires after a board has been discarded.
	OnReset func(ctx context.Context, boardID string)
}
