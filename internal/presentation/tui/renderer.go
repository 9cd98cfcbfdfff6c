package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// With rich false the markdown is returned untouched, for pipes and logs.
func NewRenderer(rich bool) func(string) (string, error) {
	if !rich {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return "", fmt.Errorf("markdown renderer: %w", err)
		}
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// RenderCatalogMarkdown lists the templates with the index a drop event uses to pick them.
func RenderCatalogMarkdown(catalog *domain.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Catalog (`%s`)\n\n", domain.CatalogID)
	items := catalog.Items()
	if len(items) == 0 {
		b.WriteString("_empty_\n")
		return b.String()
	}
	for i, item := range items {
		fmt.Fprintf(&b, "- **[%d]** %s `%s`\n", i, item.Content, item.TemplateID)
	}
	return b.String()
}

// RenderBoardMarkdown renders every list of the board, in order, with item indices and ids.
// Lists are also numbered by position, matching the "#N" references the replay runner accepts.
func RenderBoardMarkdown(board *domain.Board) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Board `%s`\n\n", board.ID)
	if board.Len() == 0 {
		b.WriteString("_no lists_\n")
		return b.String()
	}
	for pos, l := range board.Lists() {
		fmt.Fprintf(&b, "## #%d `%s` (%d)\n\n", pos, l.ID, l.Len())
		if l.Len() == 0 {
			b.WriteString("_empty_\n\n")
			continue
		}
		for i, item := range l.Items {
			fmt.Fprintf(&b, "- **[%d]** %s `%s`\n", i, item.Content, item.InstanceID)
		}
		b.WriteString("\n")
	}
	return b.String()
}
