package main

import (
	"context"
	"log"

	"leadflow/internal/app/bootstrap"
)

// Seed process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Apply the YAML seed file and exit.
func main() {
	log.Println("leadflow seed starting")
	ctx := context.Background()
	app, err := bootstrap.BuildSeed(ctx)
	if err != nil {
		log.Fatalf("bootstrap seed failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("seed shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("leadflow seed stopped with error: %v", err)
	}
	log.Println("leadflow seed finished")
}
