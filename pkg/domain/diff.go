package domain

// BoardDiff represents the changes between two board snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type BoardDiff struct {
	// BoardID is always present to identify the target.
	BoardID string `json:"board_id"`

	// Order is the full list order, sent only when lists were added.
	Order []string `json:"order,omitempty"`

	// Lists contains the complete item sequence of every list whose items changed.
	// Clients replace these lists wholesale.
	Lists map[string][]BoardItem `json:"lists,omitempty"`
}

// Diff calculates the difference between oldBoard and newBoard.
// If oldBoard is nil, it returns a diff representing the entire newBoard (initial load).
// It returns nil when nothing changed.
func Diff(oldBoard, newBoard *Board) *BoardDiff {
	if newBoard == nil {
		return nil
	}

	diff := &BoardDiff{BoardID: newBoard.ID}

	if oldBoard == nil || !sameOrder(oldBoard.order, newBoard.order) {
		diff.Order = newBoard.ListIDs()
	}

	changed := make(map[string][]BoardItem)
	for _, id := range newBoard.order {
		newItems := newBoard.lists[id].Items
		if oldBoard != nil {
			if old, ok := oldBoard.lists[id]; ok && equalItems(old.Items, newItems) {
				continue
			}
		}
		items := make([]BoardItem, len(newItems))
		copy(items, newItems)
		changed[id] = items
	}
	if len(changed) > 0 {
		diff.Lists = changed
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func sameOrder(a, b []string) bool {
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

// IsEmpty checks if the diff contains any actionable changes.
func (d *BoardDiff) IsEmpty() bool {
	return len(d.Order) == 0 && len(d.Lists) == 0
}
