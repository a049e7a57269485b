package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"boardgov/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "start the governance background worker",
	Run:   runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Start schedulers (completion detector, outbox relays, notification
//    fan-out and delivery).
func runWorker(_ *cobra.Command, _ []string) {
	log.Println("boardgov worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("boardgov worker stopped with error: %v", err)
	}
}
