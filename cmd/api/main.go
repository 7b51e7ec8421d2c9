package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"leadflow/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP and run the load-refresh ticker until signalled.

// @title Leadflow Distribution API
// @version 1.0
// @description Lead distribution service for the Leadflow CRM.
// @BasePath /
func main() {
	log.Println("leadflow api starting")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("leadflow api stopped with error: %v", err)
	}
}
