package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func mustBoard(t *testing.T, id string, lists ...List) *Board {
	t.Helper()
	b := NewBoard(id)
	for _, l := range lists {
		next, err := b.Append(l)
		if err != nil {
			t.Fatalf("Append(%s) failed: %v", l.ID, err)
		}
		b = next
	}
	return b
}

func TestDiff(t *testing.T) {
	a := BoardItem{InstanceID: "a", Content: "Headline"}
	b := BoardItem{InstanceID: "b", Content: "Quote"}

	tests := []struct {
		name      string
		old       *Board
		new       *Board
		wantOrder []string
		wantLists map[string][]BoardItem
		wantNil   bool
	}{
		{
			name:      "Initial Load (Old is Nil)",
			old:       nil,
			new:       mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{a}}),
			wantOrder: []string{"L1"},
			wantLists: map[string][]BoardItem{"L1": {a}},
		},
		{
			name:    "No Changes",
			old:     mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{a}}),
			new:     mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{a}}),
			wantNil: true,
		},
		{
			name:      "List Added",
			old:       mustBoard(t, "board-1", List{ID: "L1"}),
			new:       mustBoard(t, "board-1", List{ID: "L1"}, List{ID: "L2"}),
			wantOrder: []string{"L1", "L2"},
			wantLists: map[string][]BoardItem{"L2": {}},
		},
		{
			name:      "Items Moved Between Lists",
			old:       mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{a, b}}, List{ID: "L2"}),
			new:       mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{b}}, List{ID: "L2", Items: []BoardItem{a}}),
			wantLists: map[string][]BoardItem{"L1": {b}, "L2": {a}},
		},
		{
			name:      "Reorder Within List",
			old:       mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{a, b}}, List{ID: "L2"}),
			new:       mustBoard(t, "board-1", List{ID: "L1", Items: []BoardItem{b, a}}, List{ID: "L2"}),
			wantLists: map[string][]BoardItem{"L1": {b, a}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Diff() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Diff() = nil, want a diff")
			}
			if got.BoardID != "board-1" {
				t.Errorf("Diff().BoardID = %v, want board-1", got.BoardID)
			}
			if !reflect.DeepEqual(got.Order, tt.wantOrder) {
				t.Errorf("Diff().Order = %v, want %v", got.Order, tt.wantOrder)
			}
			if !reflect.DeepEqual(got.Lists, tt.wantLists) {
				t.Errorf("Diff().Lists = %v, want %v", got.Lists, tt.wantLists)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Unchanged Order Omitted", func(t *testing.T) {
		old := mustBoard(t, "b", List{ID: "L1", Items: []BoardItem{{InstanceID: "x", Content: "Copy"}}})
		next, err := old.Replace(List{ID: "L1"})
		if err != nil {
			t.Fatal(err)
		}
		diff := Diff(old, next)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"order"`) {
			t.Errorf("JSON should not contain 'order' when lists were not added, got: %s", string(bytes))
		}
		if !strings.Contains(string(bytes), `"L1":[]`) {
			t.Errorf("JSON should contain the emptied list, got: %s", string(bytes))
		}
	})
}
