package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mbrt/gmailctl/cmd/gmailctl/localcred"
	gmailapi "google.golang.org/api/gmail/v1"

	gc "github.com/joshsymonds/sortmate/internal/gmail"
)

// NewGmailClient builds an authenticated client using credentials stored in
// authDir. Token acquisition, refresh, and on-disk storage are handled by the
// localcred provider.
func NewGmailClient(ctx context.Context, authDir string) (gc.Client, error) {
	svc, err := (localcred.Provider{}).ServiceWithScopes(
		ctx, authDir,
		gmailapi.GmailModifyScope,
		gmailapi.GmailLabelsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("authenticate from %s: %w", authDir, err)
	}
	return NewGoogleAPIClient(svc), nil
}

// DefaultLogger returns the process-wide text logger. verbose lowers the
// level to debug.
func DefaultLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
