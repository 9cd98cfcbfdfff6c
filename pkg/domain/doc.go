/*
Package domain contains the core domain models of the Kiosk board engine.

It defines the entities the operation engine works on: the immutable Catalog of
template items, the Board of user-created ordered Lists, and the DropEvent
records produced by an external drag coordinator. This package is kept pure and
free of I/O or persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Catalog: fixed, ordered sequence of CatalogItem templates. Never mutated.
  - BoardItem: an instance copied from the catalog, carrying a unique InstanceID.
  - List: an ordered sequence of BoardItems identified by a list ID.
  - Board: an ordered mapping from list ID to List. Boards are values: every
    operation produces a new Board and leaves its input untouched.
  - DropEvent: the gesture result that the dispatch policy turns into an Operation.
*/
package domain
