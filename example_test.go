package kiosk_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/kiosk"
	"github.com/aretw0/kiosk/pkg/adapters/memory"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ids"
)

// ExampleNew_memory builds an engine over a hand-written catalog.
func ExampleNew_memory() {
	loader := memory.NewLoader(
		domain.CatalogItem{TemplateID: "t-headline", Content: "Headline"},
		domain.CatalogItem{TemplateID: "t-quote", Content: "Quote"},
	)

	engine, err := kiosk.New("",
		kiosk.WithCatalog(loader),
		kiosk.WithIDGenerator(ids.NewSequence("item")),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	board, err := engine.Board(ctx, "demo")
	if err != nil {
		log.Fatal(err)
	}
	dest := board.ListIDs()[0]

	// Drop "Quote" into the empty first list.
	out, err := engine.Drop(ctx, "demo", domain.DropEvent{
		SourceListID:      domain.CatalogID,
		SourceIndex:       1,
		DestinationListID: &dest,
		DestinationIndex:  0,
	})
	if err != nil {
		log.Fatal(err)
	}

	list, _ := out.After.List(dest)
	fmt.Println(out.Operation)
	fmt.Println(list.Items[0].InstanceID, list.Items[0].Content)
	// Output:
	// copy
	// item-2 Quote
}

// ExampleEngine_Drop_cancelled shows that a drop outside any list leaves the board as it was.
func ExampleEngine_Drop_cancelled() {
	engine, err := kiosk.New("")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	before, _ := engine.Board(ctx, "demo")

	out, err := engine.Drop(ctx, "demo", domain.DropEvent{
		SourceListID: domain.CatalogID,
		SourceIndex:  0,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(out.Operation, out.After.Equal(before))
	// Output:
	// cancel true
}
