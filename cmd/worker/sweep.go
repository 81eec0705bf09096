package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/markode-co/MarkodeAITool/config"
	"github.com/markode-co/MarkodeAITool/internal/bootstrap"
	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
	"github.com/markode-co/MarkodeAITool/internal/projects/repository"
	"github.com/markode-co/MarkodeAITool/internal/projects/sweeper"
	"github.com/markode-co/MarkodeAITool/internal/storage/postgres"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark projects stuck in building as failed",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.App.LogLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var publisher events.Publisher = events.Discard{}
	if rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis); err != nil {
		log.Printf("Warning: %v, status events will not be published", err)
	} else {
		defer rdb.Close()
		publisher = events.NewRedisBus(rdb, 0)
	}

	sw := sweeper.New(repository.NewProjectRepository(db), publisher, cfg.Generation.StaleAfter, "")
	n, err := sw.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "marked %d stale project(s) as error\n", n)
	return nil
}
