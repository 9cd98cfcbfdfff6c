package domain

// DropEvent is the record a drag coordinator emits when a gesture ends.
// A nil DestinationListID means the item was dropped outside any list.
type DropEvent struct {
	SourceListID      string  `json:"source_list_id" mapstructure:"source_list_id"`
	SourceIndex       int     `json:"source_index" mapstructure:"source_index"`
	DestinationListID *string `json:"destination_list_id" mapstructure:"destination_list_id"`
	DestinationIndex  int     `json:"destination_index" mapstructure:"destination_index"`
}

// Cancelled reports whether the event has no destination.
func (e DropEvent) Cancelled() bool {
	return e.DestinationListID == nil
}

// Destination returns the destination list ID, or "" when the drop was cancelled.
func (e DropEvent) Destination() string {
	if e.DestinationListID == nil {
		return ""
	}
	return *e.DestinationListID
}

// Operation names the transformation selected for a drop event.
type Operation string

const (
	OpCancel  Operation = "cancel"
	OpReorder Operation = "reorder"
	OpCopy    Operation = "copy"
	OpMove    Operation = "move"
	OpAddList Operation = "add_list"
)

// Outcome is the result of one applied operation.
// Before and After are complete snapshots; for OpCancel they are the same board.
type Outcome struct {
	Operation Operation `json:"operation"`
	Before    *Board    `json:"-"`
	After     *Board    `json:"board"`

	// ListID is set for OpAddList.
	ListID string `json:"list_id,omitempty"`
	// InstanceID is the item that was created, reordered or moved.
	InstanceID string `json:"instance_id,omitempty"`

	// Event is reported to OnOperation once the new board is committed.
	Event *OperationEvent `json:"-"`
}
