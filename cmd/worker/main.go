package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Markode maintenance and generation tasks",
	Long: `worker runs one-off jobs against the Markode backend: sweeping projects stuck in
"building" and generating a project tree straight to disk.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
