package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckListRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		ok   bool
	}{
		{"uuid", "3f2a9c1e-7b44-4d5e-9a61-0c8e2f1b7d90", true},
		{"catalog", "ITEMS", true},
		{"position", "#0", true},
		{"ansi escape", "list\x1b[31m", false},
		{"null byte", "li\x00st", false},
		{"newline", "a\nb", false},
		{"space", "my list", false},
		{"invalid utf8", "list\xff", false},
		{"too long", strings.Repeat("a", MaxListRefLength+1), false},
		{"at limit", strings.Repeat("a", MaxListRefLength), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkListRef("source_list_id", tt.ref)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnsafeListRef)
			}
		})
	}
}

func TestParseCommand_RejectsUnsafeListRefs(t *testing.T) {
	_, err := ParseCommand(`{"op":"drop","source_list_id":"ITEMS","destination_list_id":"a\u001b[2Jb"}`)
	assert.ErrorIs(t, err, ErrUnsafeListRef)

	_, err = ParseCommand(`{"op":"drop","source_list_id":"bad id"}`)
	assert.ErrorIs(t, err, ErrUnsafeListRef)

	_, err = ParseCommand("{\"op\":\"drop\",\"source_list_id\":\"L1\xff\"}")
	assert.ErrorIs(t, err, ErrInvalidLine)
}
