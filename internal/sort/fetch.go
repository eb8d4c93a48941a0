package sort

import (
	"context"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// fetchDetails resolves message ids to full records in chunks of BatchSize.
// A failure on one message is logged and that message is omitted; the fetch
// never aborts as a whole.
func (s *Service) fetchDetails(ctx context.Context, ids []gmail.MessageID) []gmail.Message {
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	s.Logger.Debug("fetching message details", "count", len(ids), "batch_size", batchSize)

	msgs := make([]gmail.Message, 0, len(ids))
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		for _, id := range ids[i:end] {
			if err := s.wait(ctx); err != nil {
				s.Logger.Error("fetch canceled", "error", err)
				return msgs
			}
			msg, err := s.Client.GetMessage(ctx, id)
			if err != nil {
				s.Logger.Error("fetching message failed, dropping", "message", id, "error", err)
				continue
			}
			msgs = append(msgs, msg)
		}
		s.Logger.Debug("batch fetched", "through", end, "of", len(ids))
	}
	return msgs
}
