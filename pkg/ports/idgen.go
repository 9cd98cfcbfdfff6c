package ports

// IDGenerator produces identifiers for board items and lists.
// Implementations must be safe for concurrent use and must never return
// a value they returned before in the process lifetime.
type IDGenerator interface {
	NewID() string
}
