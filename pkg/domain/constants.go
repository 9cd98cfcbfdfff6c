package domain

// CatalogID is the reserved list ID identifying the catalog as a pseudo-list
// in drop events. The catalog can be a drag source but never a drop target.
const CatalogID = "ITEMS"

// DefaultInitialLists is the number of empty lists a new board starts with.
const DefaultInitialLists = 1
