package domain

import (
	"encoding/json"
	"fmt"
)

// BoardItem is an instance of a catalog template placed on the board.
type BoardItem struct {
	InstanceID string `json:"id"`
	Content    string `json:"content"`
}

// List is an ordered sequence of board items. Order is the display and priority order.
type List struct {
	ID    string      `json:"id"`
	Items []BoardItem `json:"items"`
}

// Len returns the number of items in the list.
func (l List) Len() int {
	return len(l.Items)
}

// Clone returns a copy whose Items slice does not alias the receiver's.
func (l List) Clone() List {
	items := make([]BoardItem, len(l.Items))
	copy(items, l.Items)
	return List{ID: l.ID, Items: items}
}

// Board maps list IDs to lists, remembering the order lists were created in.
// A Board is treated as an immutable snapshot: Replace and Append return new boards.
type Board struct {
	ID    string
	order []string
	lists map[string]List
}

// NewBoard creates an empty board.
func NewBoard(id string) *Board {
	return &Board{
		ID:    id,
		order: []string{},
		lists: make(map[string]List),
	}
}

// Len returns the number of lists.
func (b *Board) Len() int {
	return len(b.order)
}

// ListIDs returns list IDs in display order.
func (b *Board) ListIDs() []string {
	ids := make([]string, len(b.order))
	copy(ids, b.order)
	return ids
}

// List returns a copy of the list with the given ID.
func (b *Board) List(id string) (List, bool) {
	l, ok := b.lists[id]
	if !ok {
		return List{}, false
	}
	return l.Clone(), true
}

// ListAt returns the list at the given display position.
func (b *Board) ListAt(pos int) (List, bool) {
	if pos < 0 || pos >= len(b.order) {
		return List{}, false
	}
	return b.List(b.order[pos])
}

// Lists returns copies of all lists in display order.
func (b *Board) Lists() []List {
	out := make([]List, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.lists[id].Clone())
	}
	return out
}

// ItemCount returns the total number of items across all lists.
func (b *Board) ItemCount() int {
	n := 0
	for _, l := range b.lists {
		n += len(l.Items)
	}
	return n
}

// Contains reports whether an item with the given instance ID is anywhere on the board.
func (b *Board) Contains(instanceID string) bool {
	for _, l := range b.lists {
		for _, item := range l.Items {
			if item.InstanceID == instanceID {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{
		ID:    b.ID,
		order: b.ListIDs(),
		lists: make(map[string]List, len(b.lists)),
	}
	for id, l := range b.lists {
		c.lists[id] = l.Clone()
	}
	return c
}

// Replace returns a new board where each given list replaces the list with the same ID.
// All lists are swapped in together; if any ID is unknown the board is returned unchanged
// together with ErrListNotFound.
func (b *Board) Replace(lists ...List) (*Board, error) {
	for _, l := range lists {
		if _, ok := b.lists[l.ID]; !ok {
			return b, fmt.Errorf("%w: %q", ErrListNotFound, l.ID)
		}
	}
	next := b.Clone()
	for _, l := range lists {
		next.lists[l.ID] = l.Clone()
	}
	return next, nil
}

// Append returns a new board with the list added after the existing ones.
func (b *Board) Append(l List) (*Board, error) {
	if l.ID == "" || l.ID == CatalogID {
		return b, fmt.Errorf("invalid list id %q", l.ID)
	}
	if _, exists := b.lists[l.ID]; exists {
		return b, fmt.Errorf("%w: list %q", ErrDuplicateID, l.ID)
	}
	next := b.Clone()
	next.order = append(next.order, l.ID)
	next.lists[l.ID] = l.Clone()
	return next, nil
}

// Equal reports whether two boards hold the same lists, in the same order, with the same items.
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.ID != other.ID || len(b.order) != len(other.order) {
		return false
	}
	for i, id := range b.order {
		if other.order[i] != id {
			return false
		}
		if !equalItems(b.lists[id].Items, other.lists[id].Items) {
			return false
		}
	}
	return true
}

func equalItems(a, b []BoardItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type boardJSON struct {
	ID    string `json:"id"`
	Lists []List `json:"lists"`
}

// MarshalJSON encodes the board with its lists as an ordered array.
func (b *Board) MarshalJSON() ([]byte, error) {
	lists := b.Lists()
	for i := range lists {
		if lists[i].Items == nil {
			lists[i].Items = []BoardItem{}
		}
	}
	return json.Marshal(boardJSON{ID: b.ID, Lists: lists})
}

// UnmarshalJSON restores a board, rejecting repeated list or instance ids.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored := NewBoard(raw.ID)
	seen := make(map[string]struct{})
	for _, l := range raw.Lists {
		for _, item := range l.Items {
			if _, dup := seen[item.InstanceID]; dup {
				return fmt.Errorf("%w: item %q", ErrDuplicateID, item.InstanceID)
			}
			seen[item.InstanceID] = struct{}{}
		}
		next, err := restored.Append(l)
		if err != nil {
			return err
		}
		restored = next
	}
	*b = *restored
	return nil
}
