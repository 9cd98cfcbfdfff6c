package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/kiosk/pkg/domain"
)

// Op names a replay command.
type Op string

const (
	OpAddList Op = "add_list"
	OpDrop    Op = "drop"
	OpShow    Op = "show"
	OpCatalog Op = "catalog"
)

var (
	ErrUnknownOp   = errors.New("unknown op")
	ErrInvalidLine = errors.New("invalid command line")
)

// Command is one line of a replay stream.
type Command struct {
	Op                Op      `json:"op"`
	SourceListID      string  `json:"source_list_id,omitempty"`
	SourceIndex       int     `json:"source_index,omitempty"`
	DestinationListID *string `json:"destination_list_id,omitempty"`
	DestinationIndex  int     `json:"destination_index,omitempty"`

	// Line is the 1-based position in the stream.
	Line int `json:"-"`
}

// ParseCommand decodes and checks a single command line.
func ParseCommand(line string) (Command, error) {
	var cmd Command

	if !utf8.ValidString(line) {
		return cmd, fmt.Errorf("%w: not valid UTF-8", ErrInvalidLine)
	}

	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}

	switch cmd.Op {
	case OpAddList, OpShow, OpCatalog:
	case OpDrop:
		if cmd.SourceListID == "" {
			return cmd, fmt.Errorf("%w: drop needs source_list_id", ErrInvalidLine)
		}
		if err := checkListRef("source_list_id", cmd.SourceListID); err != nil {
			return cmd, err
		}
		if cmd.DestinationListID != nil && *cmd.DestinationListID != "" {
			if err := checkListRef("destination_list_id", *cmd.DestinationListID); err != nil {
				return cmd, err
			}
		}
	case "":
		return cmd, fmt.Errorf("%w: missing op", ErrInvalidLine)
	default:
		return cmd, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
	return cmd, nil
}

// DropEvent resolves the command's list references against board.
func (c Command) DropEvent(board *domain.Board) (domain.DropEvent, error) {
	source, err := resolveList(board, c.SourceListID)
	if err != nil {
		return domain.DropEvent{}, err
	}
	event := domain.DropEvent{
		SourceListID:     source,
		SourceIndex:      c.SourceIndex,
		DestinationIndex: c.DestinationIndex,
	}
	if c.DestinationListID != nil {
		dest, err := resolveList(board, *c.DestinationListID)
		if err != nil {
			return domain.DropEvent{}, err
		}
		event.DestinationListID = &dest
	}
	return event, nil
}

// resolveList turns "#N" into the id of the list at 0-based position N,
// the same numbering the board renderer prints.
func resolveList(board *domain.Board, ref string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	pos, err := strconv.Atoi(ref[1:])
	if err != nil {
		return "", fmt.Errorf("%w: bad list reference %q", ErrInvalidLine, ref)
	}
	l, ok := board.ListAt(pos)
	if !ok {
		return "", fmt.Errorf("list reference %q: %w", ref, domain.ErrListNotFound)
	}
	return l.ID, nil
}
