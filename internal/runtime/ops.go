package runtime

import (
	"fmt"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ports"
)

// Reorder moves the item at start so that it ends up at position end.
// All other items keep their relative order. The input list is not modified.
func Reorder(list domain.List, start, end int) (domain.List, error) {
	n := list.Len()
	if start < 0 || start >= n {
		return list, &domain.IndexError{Op: "reorder", Role: "source", Index: start, Max: n - 1}
	}
	if end < 0 || end >= n {
		return list, &domain.IndexError{Op: "reorder", Role: "destination", Index: end, Max: n - 1}
	}

	result := list.Clone()
	item := result.Items[start]
	result.Items = remove(result.Items, start)
	result.Items = insert(result.Items, end, item)
	return result, nil
}

// Copy clones catalog[sourceIndex] into dest at destIndex under a freshly generated id.
// The generated id must not collide with the destination list or the catalog;
// a collision is reported as domain.ErrDuplicateID.
func Copy(catalog *domain.Catalog, dest domain.List, sourceIndex, destIndex int, gen ports.IDGenerator) (domain.List, error) {
	template, ok := catalog.At(sourceIndex)
	if !ok {
		return dest, &domain.IndexError{Op: "copy", Role: "source", Index: sourceIndex, Max: catalog.Len() - 1}
	}
	if destIndex < 0 || destIndex > dest.Len() {
		return dest, &domain.IndexError{Op: "copy", Role: "destination", Index: destIndex, Max: dest.Len()}
	}

	id := gen.NewID()
	if id == "" || catalog.Contains(id) || containsItem(dest, id) {
		return dest, fmt.Errorf("copy: generated id %q: %w", id, domain.ErrDuplicateID)
	}

	result := dest.Clone()
	result.Items = insert(result.Items, destIndex, domain.BoardItem{
		InstanceID: id,
		Content:    template.Content,
	})
	return result, nil
}

// Move takes the item at sourceIndex out of source and inserts it into dest at destIndex.
// Both updated lists are returned together and must be applied together.
func Move(source, dest domain.List, sourceIndex, destIndex int) (domain.List, domain.List, error) {
	if source.ID == dest.ID {
		return source, dest, fmt.Errorf("move %q: %w", source.ID, domain.ErrSameList)
	}
	if sourceIndex < 0 || sourceIndex >= source.Len() {
		return source, dest, &domain.IndexError{Op: "move", Role: "source", Index: sourceIndex, Max: source.Len() - 1}
	}
	if destIndex < 0 || destIndex > dest.Len() {
		return source, dest, &domain.IndexError{Op: "move", Role: "destination", Index: destIndex, Max: dest.Len()}
	}

	src := source.Clone()
	dst := dest.Clone()
	item := src.Items[sourceIndex]
	src.Items = remove(src.Items, sourceIndex)
	dst.Items = insert(dst.Items, destIndex, item)
	return src, dst, nil
}

// AddList appends an empty list with a freshly generated id.
func AddList(board *domain.Board, gen ports.IDGenerator) (*domain.Board, string, error) {
	id := gen.NewID()
	if id == "" || id == domain.CatalogID {
		return board, "", fmt.Errorf("add list: generated id %q: %w", id, domain.ErrDuplicateID)
	}
	next, err := board.Append(domain.List{ID: id, Items: []domain.BoardItem{}})
	if err != nil {
		return board, "", fmt.Errorf("add list: %w", err)
	}
	return next, id, nil
}

// remove and insert operate on slices the caller already owns.
func remove(items []domain.BoardItem, i int) []domain.BoardItem {
	return append(items[:i], items[i+1:]...)
}

func insert(items []domain.BoardItem, i int, item domain.BoardItem) []domain.BoardItem {
	items = append(items, domain.BoardItem{})
	copy(items[i+1:], items[i:])
	items[i] = item
	return items
}

func containsItem(l domain.List, id string) bool {
	for _, item := range l.Items {
		if item.InstanceID == id {
			return true
		}
	}
	return false
}
