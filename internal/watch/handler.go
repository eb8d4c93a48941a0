package watch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshsymonds/sortmate/internal/gmail"
	"github.com/joshsymonds/sortmate/internal/sort"
)

// Handler processes one push notification end to end: decode, query the
// change history, and label the new inbox messages.
type Handler struct {
	Client gmail.Client
	Sorter *sort.Service
	Logger *slog.Logger
}

// NewHandler wires an incremental handler over the given sweep service.
func NewHandler(client gmail.Client, sorter *sort.Service, logger *slog.Logger) *Handler {
	return &Handler{Client: client, Sorter: sorter, Logger: logger}
}

// Handle reacts to one notification payload. A malformed payload is logged
// and swallowed so the caller acknowledges it; processing errors are
// returned for logging but the caller still acknowledges (the transport is
// at-least-once and a failed classification is dropped, not retried).
func (h *Handler) Handle(ctx context.Context, data []byte) error {
	n, err := DecodeNotification(data)
	if err != nil {
		h.Logger.Warn("ignoring undecodable notification", "error", err)
		return nil
	}
	h.Logger.Info("processing notification", "account", n.EmailAddress, "history_id", n.HistoryID)

	ids, err := h.Client.ListHistory(ctx, n.HistoryID)
	if err != nil {
		return fmt.Errorf("fetch history from %d: %w", n.HistoryID, err)
	}
	if len(ids) == 0 {
		h.Logger.Info("no new inbox messages in history", "history_id", n.HistoryID)
		return nil
	}
	h.Logger.Info("found new messages", "count", len(ids))

	if err := h.Sorter.Process(ctx, ids); err != nil {
		return fmt.Errorf("process new messages: %w", err)
	}
	return nil
}
