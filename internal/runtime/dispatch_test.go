package runtime_test

import (
	"testing"

	"github.com/aretw0/kiosk/internal/runtime"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		event domain.DropEvent
		want  domain.Operation
	}{
		{
			name:  "No destination cancels",
			event: domain.DropEvent{SourceListID: "L1", SourceIndex: 0},
			want:  domain.OpCancel,
		},
		{
			name:  "Catalog drag without destination still cancels",
			event: domain.DropEvent{SourceListID: domain.CatalogID},
			want:  domain.OpCancel,
		},
		{
			name:  "Same list reorders",
			event: domain.DropEvent{SourceListID: "L1", DestinationListID: strPtr("L1")},
			want:  domain.OpReorder,
		},
		{
			name:  "Same-list rule wins over catalog rule",
			event: domain.DropEvent{SourceListID: domain.CatalogID, DestinationListID: strPtr(domain.CatalogID)},
			want:  domain.OpReorder,
		},
		{
			name:  "Catalog source copies",
			event: domain.DropEvent{SourceListID: domain.CatalogID, DestinationListID: strPtr("L1")},
			want:  domain.OpCopy,
		},
		{
			name:  "Different lists move",
			event: domain.DropEvent{SourceListID: "L1", DestinationListID: strPtr("L2")},
			want:  domain.OpMove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runtime.Decide(tt.event))
		})
	}
}
