package sort

import (
	"context"
	"slices"
	"strings"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Update pairs a message with the labels to add to it.
type Update struct {
	ID        gmail.MessageID
	AddLabels []gmail.LabelID
}

// applyGrouped groups messages by their exact label set and issues one bulk
// add per distinct set. Empty label ids are dropped first. A failure on one
// group is logged and does not block the others.
func (s *Service) applyGrouped(ctx context.Context, updates []Update) error {
	if len(updates) == 0 {
		s.Logger.Info("no label updates to apply")
		return nil
	}

	type group struct {
		labels []gmail.LabelID
		ids    []gmail.MessageID
	}
	groups := make(map[string]*group)
	for _, u := range updates {
		labels := dedupeLabels(u.AddLabels)
		if len(labels) == 0 {
			continue
		}
		key := labelSetKey(labels)
		g := groups[key]
		if g == nil {
			g = &group{labels: labels}
			groups[key] = g
		}
		g.ids = append(g.ids, u.ID)
	}

	for _, g := range groups {
		if err := s.wait(ctx); err != nil {
			return err
		}
		if err := s.Client.BatchAddLabels(ctx, g.ids, g.labels); err != nil {
			s.Logger.Error("applying labels to group failed", "labels", len(g.labels), "messages", len(g.ids), "error", err)
			continue
		}
		s.Logger.Info("applied labels", "labels", len(g.labels), "messages", len(g.ids))
	}
	return nil
}

// dedupeLabels drops empty ids and duplicates, returning a sorted copy so
// identical sets produce identical grouping keys.
func dedupeLabels(labels []gmail.LabelID) []gmail.LabelID {
	seen := make(map[gmail.LabelID]struct{}, len(labels))
	out := make([]gmail.LabelID, 0, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

func labelSetKey(sorted []gmail.LabelID) string {
	parts := make([]string, len(sorted))
	for i, l := range sorted {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\x00")
}
