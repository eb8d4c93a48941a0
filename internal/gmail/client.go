package gmail

import (
	"context"
	"errors"
)

// ErrLabelExists reports that a label with the requested name already exists.
// CreateLabel returns it on a conflict; callers recover by refetching labels.
var ErrLabelExists = errors.New("label already exists")

// Client is the narrow Gmail surface required by sortmate.
type Client interface {
	// ListInbox returns one page of inbox message ids.
	ListInbox(ctx context.Context, pageToken string, maxResults int64) (ListPage, error)
	// GetMessage returns the full record for one message.
	GetMessage(ctx context.Context, id MessageID) (Message, error)
	// ListLabels returns the complete name-to-id mapping for the mailbox.
	ListLabels(ctx context.Context) (map[string]LabelID, error)
	// CreateLabel creates a label and returns its new id. Returns an error
	// wrapping ErrLabelExists if the name is already taken.
	CreateLabel(ctx context.Context, name string) (LabelID, error)
	// BatchAddLabels adds the given labels to every listed message in one call.
	BatchAddLabels(ctx context.Context, ids []MessageID, add []LabelID) error
	// ListHistory returns ids of messages newly added to the inbox since start.
	ListHistory(ctx context.Context, start HistoryID) ([]MessageID, error)
	// Watch establishes a push notification channel for inbox changes.
	Watch(ctx context.Context, topic string) (WatchInfo, error)
	// StopWatch tears down the push notification channel.
	StopWatch(ctx context.Context) error
}
