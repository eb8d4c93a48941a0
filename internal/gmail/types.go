package gmail

// MessageID identifies a single message in the mailbox.
type MessageID string

// LabelID is the opaque identifier the label store assigns at creation.
type LabelID string

// HistoryID is a cursor into the mailbox change log.
type HistoryID uint64

// InboxLabel is Gmail's well-known inbox label identifier.
const InboxLabel LabelID = "INBOX"

// Header is one ordered name/value pair from a message's header list.
type Header struct {
	Name  string
	Value string
}

// Message is the read-only view of a mailbox message used for classification.
type Message struct {
	ID       MessageID
	Headers  []Header
	Snippet  string
	LabelIDs []LabelID
}

// Header returns the value of the first header with the given name, or "".
func (m Message) Header(name string) string {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// ListPage is one page of message ids from a mailbox listing.
type ListPage struct {
	IDs           []MessageID
	NextPageToken string
}

// WatchInfo describes an established push watch.
type WatchInfo struct {
	HistoryID  HistoryID
	Expiration int64 // epoch millis
}
