package main

import (
	"context"
	"log"

	"boardgov/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "start the governance HTTP API",
	Run:   runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func runAPI(_ *cobra.Command, _ []string) {
	log.Println("boardgov api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("boardgov api stopped with error: %v", err)
	}
}
