package runtime

import "github.com/aretw0/kiosk/pkg/domain"

// Decide selects the operation for a drop event. The first matching rule wins:
//
//  1. no destination: cancel
//  2. same list: reorder
//  3. source is the catalog: copy
//  4. otherwise: move
func Decide(event domain.DropEvent) domain.Operation {
	switch {
	case event.Cancelled():
		return domain.OpCancel
	case event.SourceListID == event.Destination():
		return domain.OpReorder
	case event.SourceListID == domain.CatalogID:
		return domain.OpCopy
	default:
		return domain.OpMove
	}
}
