// Package sort drives the inbox sweep: page through the mailbox, classify
// each message, and apply the derived labels in grouped batches.
package sort

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshsymonds/sortmate/internal/classify"
	"github.com/joshsymonds/sortmate/internal/gmail"
	"github.com/joshsymonds/sortmate/internal/label"
	"github.com/joshsymonds/sortmate/internal/rate"
)

const (
	defaultPageSize  = 100 // deliberate throttle; the API ceiling is higher
	defaultBatchSize = 5
)

// Service sweeps the inbox and labels its messages.
type Service struct {
	Client    gmail.Client
	Limiter   rate.Limiter
	Logger    *slog.Logger
	Options   classify.Options
	Ignore    []gmail.LabelID
	PageSize  int
	BatchSize int
	DryRun    bool
}

// NewService constructs a sweep service with defaults filled in.
func NewService(client gmail.Client, limiter rate.Limiter, logger *slog.Logger) *Service {
	if limiter == nil {
		limiter = rate.Nop{}
	}
	return &Service{
		Client:    client,
		Limiter:   limiter,
		Logger:    logger,
		Options:   classify.DefaultOptions(),
		PageSize:  defaultPageSize,
		BatchSize: defaultBatchSize,
	}
}

// Run sweeps the inbox, processing at most maxEmails messages (0 means no
// budget). Pages are handled strictly sequentially; errors local to one
// message or label never abort the sweep.
func (s *Service) Run(ctx context.Context, maxEmails int) error {
	dir := label.Fetch(ctx, s.Client, s.Logger)
	resolver := label.NewResolver(s.Client, dir, s.Logger)

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	s.Logger.Info("starting sweep", "max_emails", maxEmails, "page_size", pageSize)

	var (
		processed int
		pageToken string
	)
	for {
		if maxEmails > 0 && processed >= maxEmails {
			s.Logger.Info("reached email budget", "budget", maxEmails)
			break
		}
		want := pageSize
		if maxEmails > 0 && maxEmails-processed < want {
			want = maxEmails - processed
		}

		if err := s.wait(ctx); err != nil {
			return err
		}
		page, err := s.Client.ListInbox(ctx, pageToken, int64(want))
		if err != nil {
			return fmt.Errorf("list inbox page: %w", err)
		}
		if len(page.IDs) == 0 {
			s.Logger.Info("no messages found in inbox")
			break
		}
		processed += len(page.IDs)

		if err := s.processPage(ctx, resolver, page.IDs); err != nil {
			return err
		}

		if page.NextPageToken == "" {
			s.Logger.Info("no more pages of messages")
			break
		}
		pageToken = page.NextPageToken
		s.Logger.Info("page complete", "processed", processed)
	}

	s.Logger.Info("sweep complete", "processed", processed)
	return nil
}

// Process runs one batch of message ids through the full pipeline with a
// fresh directory fetch. The incremental driver uses it for messages pulled
// from the change history.
func (s *Service) Process(ctx context.Context, ids []gmail.MessageID) error {
	if len(ids) == 0 {
		return nil
	}
	dir := label.Fetch(ctx, s.Client, s.Logger)
	resolver := label.NewResolver(s.Client, dir, s.Logger)
	return s.processPage(ctx, resolver, ids)
}

// processPage fetches, classifies, and labels one page of messages.
func (s *Service) processPage(ctx context.Context, resolver *label.Resolver, ids []gmail.MessageID) error {
	msgs := s.fetchDetails(ctx, ids)
	updates := make([]Update, 0, len(msgs))
	for _, msg := range msgs {
		if s.ignored(msg) {
			s.Logger.Debug("skipping ignored message", "message", msg.ID)
			continue
		}
		labels := s.labelsFor(ctx, resolver, msg)
		if len(labels) > 0 {
			updates = append(updates, Update{ID: msg.ID, AddLabels: labels})
		}
	}
	if s.DryRun {
		s.Logger.Info("dry-run, skipping label application", "updates", len(updates))
		return nil
	}
	return s.applyGrouped(ctx, updates)
}

// labelsFor classifies one message and resolves the derived paths to label
// ids. A resolver failure drops that label only.
func (s *Service) labelsFor(ctx context.Context, resolver *label.Resolver, msg gmail.Message) []gmail.LabelID {
	paths := classify.Plan(msg, s.Options)
	ids := make([]gmail.LabelID, 0, len(paths))
	for _, path := range paths {
		if s.DryRun {
			s.Logger.Info("would label", "message", msg.ID, "label", path)
			continue
		}
		id, err := resolver.EnsurePath(ctx, path)
		if err != nil {
			s.Logger.Error("resolving label failed, skipping", "label", path, "message", msg.ID, "error", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ignored reports whether the message carries any label on the ignore list.
func (s *Service) ignored(msg gmail.Message) bool {
	for _, have := range msg.LabelIDs {
		for _, skip := range s.Ignore {
			if have == skip {
				return true
			}
		}
	}
	return false
}

func (s *Service) wait(ctx context.Context) error {
	if s.Limiter == nil {
		return nil
	}
	return s.Limiter.Wait(ctx)
}
