package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/cmd"
	"github.com/gambizardonkick/Shuffle-Live-tracker/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Affiliate leaderboard, raffle and live bet tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background workers",
		RunE:  runServe,
	})

	var at string
	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "Print the previous and current accrual windows",
		RunE: func(c *cobra.Command, args []string) error {
			instant := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
				instant = parsed
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			scheduler, err := cmd.NewScheduler(cfg)
			if err != nil {
				return err
			}
			return cmd.PrintWindows(c.OutOrStdout(), scheduler, instant)
		},
	}
	windowCmd.Flags().StringVar(&at, "at", "", "instant to evaluate (RFC3339, default now)")
	root.AddCommand(windowCmd)

	return root
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Error("Application error")
		return err
	}
	return nil
}
