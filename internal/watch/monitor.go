package watch

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
)

// Monitor subscribes to the Pub/Sub subscription carrying Gmail push events
// and feeds each one to the handler. Every message is acknowledged no matter
// what happened upstream, to prevent redelivery storms.
type Monitor struct {
	Handler      *Handler
	Logger       *slog.Logger
	ProjectID    string
	Subscription string
}

// Run blocks receiving notifications until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	client, err := pubsub.NewClient(ctx, m.ProjectID)
	if err != nil {
		return fmt.Errorf("create pubsub client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			m.Logger.Error("closing pubsub client", "error", closeErr)
		}
	}()

	sub := client.Subscription(m.Subscription)
	m.Logger.Info("monitoring for new messages", "subscription", m.Subscription)

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		// ack unconditionally; a dropped notification is recovered by the
		// next sweep, a redelivery storm is not
		defer msg.Ack()
		if handleErr := m.Handler.Handle(ctx, msg.Data); handleErr != nil {
			m.Logger.Error("notification processing failed", "error", handleErr)
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("receive notifications: %w", err)
	}
	return nil
}
