package loam

// ItemMetadata is the frontmatter of a catalog note.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type ItemMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Order int    `json:"order" mapstructure:"order"`
	// Title is used as content when the note body is empty.
	Title string `json:"title" mapstructure:"title"`
}
