package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boardgovd <subcommand>",
	Short: "board governance service",
	Long:  "boardgovd runs the board governance platform: resolutions and voting, meetings with RSVPs and minutes, and member notifications.",
	Run:   nil,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("boardgovd failed: %v", err)
	}
}
