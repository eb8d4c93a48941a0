// Package runtime adapts *gmail.Service to the small client interface the
// rest of sortmate consumes.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"

	gc "github.com/joshsymonds/sortmate/internal/gmail"
)

type googleClient struct{ svc *gmailapi.Service }

// NewGoogleAPIClient wraps a Gmail API service in the gc.Client interface.
func NewGoogleAPIClient(svc *gmailapi.Service) gc.Client { return &googleClient{svc} }

func (g *googleClient) ListInbox(ctx context.Context, pageToken string, maxResults int64) (gc.ListPage, error) {
	call := g.svc.Users.Messages.List("me").
		LabelIds(string(gc.InboxLabel)).
		MaxResults(maxResults).
		Fields("messages/id", "nextPageToken")
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return gc.ListPage{}, fmt.Errorf("list inbox: %w", err)
	}
	page := gc.ListPage{NextPageToken: res.NextPageToken}
	for _, m := range res.Messages {
		page.IDs = append(page.IDs, gc.MessageID(m.Id))
	}
	return page, nil
}

func (g *googleClient) GetMessage(ctx context.Context, id gc.MessageID) (gc.Message, error) {
	msg, err := g.svc.Users.Messages.Get("me", string(id)).Format("full").Context(ctx).Do()
	if err != nil {
		return gc.Message{}, fmt.Errorf("get message %s: %w", id, err)
	}
	out := gc.Message{ID: id, Snippet: msg.Snippet, LabelIDs: toLabelIDs(msg.LabelIds)}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			out.Headers = append(out.Headers, gc.Header{Name: h.Name, Value: h.Value})
		}
	}
	return out, nil
}

func (g *googleClient) ListLabels(ctx context.Context) (map[string]gc.LabelID, error) {
	res, err := g.svc.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	byName := make(map[string]gc.LabelID, len(res.Labels))
	for _, l := range res.Labels {
		byName[l.Name] = gc.LabelID(l.Id)
	}
	return byName, nil
}

func (g *googleClient) CreateLabel(ctx context.Context, name string) (gc.LabelID, error) {
	body := &gmailapi.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}
	created, err := g.svc.Users.Labels.Create("me", body).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return "", fmt.Errorf("create label %q: %w", name, gc.ErrLabelExists)
		}
		return "", fmt.Errorf("create label %q: %w", name, err)
	}
	return gc.LabelID(created.Id), nil
}

func (g *googleClient) BatchAddLabels(ctx context.Context, ids []gc.MessageID, add []gc.LabelID) error {
	req := &gmailapi.BatchModifyMessagesRequest{
		Ids:         toStrings(ids),
		AddLabelIds: toStringsL(add),
	}
	if err := g.svc.Users.Messages.BatchModify("me", req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch modify %d messages: %w", len(ids), err)
	}
	return nil
}

func (g *googleClient) ListHistory(ctx context.Context, start gc.HistoryID) ([]gc.MessageID, error) {
	var (
		ids   []gc.MessageID
		token string
	)
	for {
		call := g.svc.Users.History.List("me").
			StartHistoryId(uint64(start)).
			HistoryTypes("messageAdded").
			LabelId(string(gc.InboxLabel))
		if token != "" {
			call = call.PageToken(token)
		}
		res, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list history from %d: %w", start, err)
		}
		for _, h := range res.History {
			for _, added := range h.MessagesAdded {
				if added.Message == nil {
					continue
				}
				if containsLabel(added.Message.LabelIds, string(gc.InboxLabel)) {
					ids = append(ids, gc.MessageID(added.Message.Id))
				}
			}
		}
		if res.NextPageToken == "" {
			return ids, nil
		}
		token = res.NextPageToken
	}
}

func (g *googleClient) Watch(ctx context.Context, topic string) (gc.WatchInfo, error) {
	req := &gmailapi.WatchRequest{
		LabelIds:          []string{string(gc.InboxLabel)},
		LabelFilterAction: "include",
		TopicName:         topic,
	}
	res, err := g.svc.Users.Watch("me", req).Context(ctx).Do()
	if err != nil {
		return gc.WatchInfo{}, fmt.Errorf("start watch on %s: %w", topic, err)
	}
	return gc.WatchInfo{HistoryID: gc.HistoryID(res.HistoryId), Expiration: res.Expiration}, nil
}

func (g *googleClient) StopWatch(ctx context.Context) error {
	if err := g.svc.Users.Stop("me").Context(ctx).Do(); err != nil {
		return fmt.Errorf("stop watch: %w", err)
	}
	return nil
}

func toStrings(ids []gc.MessageID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toStringsL(ids []gc.LabelID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toLabelIDs(raw []string) []gc.LabelID {
	if len(raw) == 0 {
		return nil
	}
	out := make([]gc.LabelID, len(raw))
	for i, id := range raw {
		out[i] = gc.LabelID(id)
	}
	return out
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
