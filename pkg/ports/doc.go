/*
Package ports defines the driven and driving ports (interfaces) of the Kiosk engine.

These interfaces decouple the board engine from external implementations, allowing
it to work with various storage backends, catalog sources, and id generators.

# Key Interfaces

  - IDGenerator: Produces globally unique identifiers for board items and lists.
  - CatalogLoader: Loads the fixed catalog at startup (e.g., from Loam or Memory).
  - BoardStore: Persists and loads board snapshots.
  - DistributedLocker: Provides distributed locking for single-writer access across replicas.
  - BoardEngine: The surface that adapters (HTTP, MCP, Runner) drive.
*/
package ports
