// Command sortmate-watch manages the Gmail push watch on its own: establish
// it (renewal is a cron concern) or tear it down.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshsymonds/sortmate/internal/config"
	"github.com/joshsymonds/sortmate/internal/runtime"
	"github.com/joshsymonds/sortmate/internal/watch"
)

func main() {
	stop := flag.Bool("stop", false, "tear down the push watch instead of establishing it")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(*stop, *verbose); err != nil {
		runtime.DefaultLogger(*verbose).Error("sortmate-watch failed", "error", err)
		os.Exit(1)
	}
}

func run(stop, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := runtime.DefaultLogger(verbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := runtime.NewGmailClient(ctx, cfg.AuthDir)
	if err != nil {
		return fmt.Errorf("create gmail client: %w", err)
	}

	if stop {
		return watch.Stop(ctx, client, log)
	}

	if cfg.TopicPath() == "" {
		return fmt.Errorf("watch requires GOOGLE_CLOUD_PROJECT and SORTMATE_PUBSUB_TOPIC")
	}
	_, err = watch.Start(ctx, client, cfg.TopicPath(), log)
	return err
}
