package watch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Start establishes the Gmail push watch publishing inbox changes to the
// given Pub/Sub topic path.
func Start(ctx context.Context, client gmail.Client, topicPath string, log *slog.Logger) (gmail.WatchInfo, error) {
	if topicPath == "" {
		return gmail.WatchInfo{}, fmt.Errorf("watch requires a pubsub topic")
	}
	log.Info("setting up push watch", "topic", topicPath)
	info, err := client.Watch(ctx, topicPath)
	if err != nil {
		return gmail.WatchInfo{}, err
	}
	log.Info("watch established", "history_id", info.HistoryID, "expiration", info.Expiration)
	return info, nil
}

// Stop tears down the push watch.
func Stop(ctx context.Context, client gmail.Client, log *slog.Logger) error {
	log.Info("stopping push watch")
	if err := client.StopWatch(ctx); err != nil {
		return err
	}
	log.Info("watch stopped")
	return nil
}
