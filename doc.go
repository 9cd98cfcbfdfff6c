/*
Package kiosk is a board-state engine for drag-and-drop content composition.

A fixed catalog of template items sits next to a board of user-created lists.
Users drag catalog items into lists, where each drop creates a fresh copy with
its own identity, reorder items within a list, and move items between lists.
The engine turns each completed drag into exactly one pure operation and
applies it atomically.

# Concept

Kiosk keeps the board as an immutable snapshot. Every drop is resolved by the
dispatch policy:

  - no destination: the drag was cancelled, nothing changes
  - same source and destination list: reorder
  - source is the catalog ("ITEMS"): copy with a fresh instance id
  - otherwise: move between two lists, both updated together

Invalid indices are rejected and reported without touching the board. A
duplicate instance id is an integrity fault: the engine stops accepting
mutations until it is restarted.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/kiosk"
		"github.com/aretw0/kiosk/pkg/domain"
	)

	func main() {
		// Built-in catalog: Headline, Copy, Image, Slideshow, Quote
		eng, err := kiosk.New("")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		board, err := eng.Board(ctx, "main")
		if err != nil {
			log.Fatal(err)
		}

		// Drag "Image" from the catalog to the top of the first list
		dest := board.ListIDs()[0]
		out, err := eng.Drop(ctx, "main", domain.DropEvent{
			SourceListID:      domain.CatalogID,
			SourceIndex:       2,
			DestinationListID: &dest,
			DestinationIndex:  0,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out.Operation, out.InstanceID)
	}

# Adapters

The same engine is exposed over HTTP with server-sent board diffs
(pkg/adapters/http), as MCP tools (pkg/adapters/mcp), and as a JSON-Lines
replay runner (pkg/runner). Boards live in memory by default, or in Redis when
several replicas share them (pkg/adapters/redis).
*/
package kiosk
