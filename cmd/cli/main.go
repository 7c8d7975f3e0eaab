package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/vidpress/internal/client"
	"github.com/dmitrijs2005/vidpress/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if cfg.File == "" {
		log.Fatalf("no file to publish, use -f")
	}

	p := client.NewPublisher(cfg.ServerEndpointAddr, cfg.RequestTimeout)

	doc, err := p.Publish(ctx, cfg.File, client.Metadata{
		Title:       cfg.Title,
		Description: cfg.Description,
		Tags:        cfg.Tags,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("published document %d (%s)", doc.ID, doc.Title)
}
