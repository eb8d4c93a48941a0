// Package watch handles near-real-time labeling: it manages the Gmail push
// watch, consumes Pub/Sub notifications, and runs newly arrived messages
// through the same pipeline as a sweep.
package watch

import (
	"encoding/json"
	"fmt"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Notification is the decoded payload of a Gmail push event.
type Notification struct {
	EmailAddress string          `json:"emailAddress"`
	HistoryID    gmail.HistoryID `json:"historyId"`
}

// DecodeNotification parses a push event payload. It rejects malformed JSON
// and payloads missing either field; callers acknowledge such events without
// processing so the transport never redelivers them.
func DecodeNotification(data []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	if n.EmailAddress == "" || n.HistoryID == 0 {
		return Notification{}, fmt.Errorf("notification missing historyId or emailAddress")
	}
	return n, nil
}
