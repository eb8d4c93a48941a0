// Command sortmate sweeps the Gmail inbox, attaching date, sender, and
// keyword labels to messages, and can then stay running to label new mail as
// it arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joshsymonds/sortmate/internal/classify"
	"github.com/joshsymonds/sortmate/internal/config"
	"github.com/joshsymonds/sortmate/internal/gmail"
	"github.com/joshsymonds/sortmate/internal/rate"
	"github.com/joshsymonds/sortmate/internal/runtime"
	"github.com/joshsymonds/sortmate/internal/sort"
	"github.com/joshsymonds/sortmate/internal/watch"
)

type flags struct {
	authDir    string
	monitor    bool
	maxEmails  int
	pageSize   int
	batchSize  int
	rps        int
	sortBy     string
	senderMode string
	dryRun     bool
	verbose    bool
}

func main() {
	fl := parseFlags()
	if err := run(fl); err != nil {
		runtime.DefaultLogger(fl.verbose).Error("sortmate failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var fl flags
	flag.StringVar(&fl.authDir, "auth-dir", "", "credential directory (overrides SORTMATE_AUTH_DIR)")
	flag.BoolVar(&fl.monitor, "monitor", false, "keep running and label new mail via push notifications")
	flag.IntVar(&fl.maxEmails, "max-emails", 0, "maximum messages to process in the sweep (0 = all)")
	flag.IntVar(&fl.pageSize, "page-size", 0, "inbox listing page size")
	flag.IntVar(&fl.batchSize, "batch-size", 0, "message detail fetch batch size")
	flag.IntVar(&fl.rps, "rps", 0, "max requests per second (0 = config default)")
	flag.StringVar(&fl.sortBy, "sort-by", "", "comma separated classifiers: date,sender,keywords")
	flag.StringVar(&fl.senderMode, "sender-mode", "", "sender bucketing: domain, organization, or individual")
	flag.BoolVar(&fl.dryRun, "dry-run", false, "log what would be labeled; skip all mutations")
	flag.BoolVar(&fl.verbose, "verbose", false, "enable debug logging")
	flag.Parse()
	return fl
}

func run(fl flags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := runtime.DefaultLogger(fl.verbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(&cfg, fl)

	client, err := runtime.NewGmailClient(ctx, cfg.AuthDir)
	if err != nil {
		return fmt.Errorf("create gmail client: %w", err)
	}

	var limiter rate.Limiter = rate.Nop{}
	if cfg.RPS > 0 {
		bucket := rate.NewTokenBucket(cfg.RPS)
		defer bucket.Stop()
		limiter = bucket
	}

	svc := sort.NewService(client, limiter, log)
	svc.Options = cfg.Options
	svc.Ignore = ignoreLabels(cfg.IgnoreLabels)
	svc.PageSize = cfg.PageSize
	svc.BatchSize = cfg.BatchSize
	svc.DryRun = fl.dryRun

	if err := svc.Run(ctx, cfg.MaxEmails); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	if !fl.monitor {
		return nil
	}

	// Monitoring config problems are fatal for monitor mode only; the sweep
	// above already completed.
	if err := cfg.ValidateMonitor(); err != nil {
		return err
	}
	if _, err := watch.Start(ctx, client, cfg.TopicPath(), log); err != nil {
		return fmt.Errorf("start watch: %w", err)
	}

	monitor := &watch.Monitor{
		Handler:      watch.NewHandler(client, svc, log),
		Logger:       log,
		ProjectID:    cfg.ProjectID,
		Subscription: cfg.Subscription,
	}
	log.Info("monitoring active, press ctrl-c to exit")
	if err := monitor.Run(ctx); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

func applyFlags(cfg *config.Config, fl flags) {
	if fl.authDir != "" {
		cfg.AuthDir = fl.authDir
	}
	if fl.maxEmails > 0 {
		cfg.MaxEmails = fl.maxEmails
	}
	if fl.pageSize > 0 {
		cfg.PageSize = fl.pageSize
	}
	if fl.batchSize > 0 {
		cfg.BatchSize = fl.batchSize
	}
	if fl.rps > 0 {
		cfg.RPS = fl.rps
	}
	if fl.sortBy != "" {
		opts := classify.Options{Sender: classify.SenderOptions{Mode: cfg.Options.Sender.Mode}}
		for _, m := range strings.Split(fl.sortBy, ",") {
			switch strings.TrimSpace(m) {
			case "date":
				opts.Date = true
			case "sender":
				opts.Sender.Enabled = true
			case "keywords":
				opts.Keywords.Enabled = true
			}
		}
		opts.Keywords.Categories = cfg.Options.Keywords.Categories
		cfg.Options = opts
	}
	if fl.senderMode != "" {
		cfg.Options.Sender.Mode = classify.SenderMode(fl.senderMode)
	}
}

func ignoreLabels(names []string) []gmail.LabelID {
	out := make([]gmail.LabelID, 0, len(names))
	for _, n := range names {
		out = append(out, gmail.LabelID(n))
	}
	return out
}
