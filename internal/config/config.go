// Package config assembles the runtime configuration from a JSON config
// file, a .env file, and environment variables, in that order of precedence
// (environment wins). CLI flags override on top in main.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joshsymonds/sortmate/internal/classify"
)

// Config is the full configuration surface outside the core pipeline.
type Config struct {
	AuthDir      string
	ProjectID    string
	Topic        string
	Subscription string
	MaxEmails    int
	PageSize     int
	BatchSize    int
	RPS          int
	IgnoreLabels []string
	Options      classify.Options
}

// fileConfig is the on-disk JSON shape (~/.config/sortmate/config.json).
type fileConfig struct {
	SortingMethods []string            `json:"sorting_methods"`
	SenderMode     string              `json:"sender_mode"`
	Keywords       map[string][]string `json:"keywords"`
	IgnoreLabels   []string            `json:"ignore_labels"`
	MaxEmails      int                 `json:"max_emails"`
	PageSize       int                 `json:"page_size"`
	BatchSize      int                 `json:"batch_size"`
}

// Load reads configuration. A missing config file or .env is fine; a present
// but unreadable config file is an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AuthDir:      os.ExpandEnv("$HOME/.config/sortmate"),
		PageSize:     100,
		BatchSize:    5,
		RPS:          4,
		IgnoreLabels: []string{"SPAM", "TRASH"},
		Options:      classify.DefaultOptions(),
	}

	if err := cfg.applyFile(defaultConfigPath()); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sortmate", "config.json")
}

func (c *Config) applyFile(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(fc.SortingMethods) > 0 {
		c.Options = optionsFromMethods(fc.SortingMethods, fc.SenderMode)
	}
	if fc.Keywords != nil {
		c.Options.Keywords.Categories = classify.CategoriesFromMap(fc.Keywords)
	}
	if len(fc.IgnoreLabels) > 0 {
		c.IgnoreLabels = fc.IgnoreLabels
	}
	if fc.MaxEmails > 0 {
		c.MaxEmails = fc.MaxEmails
	}
	if fc.PageSize > 0 {
		c.PageSize = fc.PageSize
	}
	if fc.BatchSize > 0 {
		c.BatchSize = fc.BatchSize
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SORTMATE_AUTH_DIR"); v != "" {
		c.AuthDir = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv("SORTMATE_PUBSUB_TOPIC"); v != "" {
		c.Topic = v
	}
	if v := os.Getenv("SORTMATE_PUBSUB_SUBSCRIPTION"); v != "" {
		c.Subscription = v
	}
	if v := os.Getenv("SORTMATE_SORT_BY"); v != "" {
		c.Options = optionsFromMethods(splitList(v), os.Getenv("SORTMATE_SENDER_MODE"))
	} else if v := os.Getenv("SORTMATE_SENDER_MODE"); v != "" && c.Options.Sender.Enabled {
		c.Options.Sender.Mode = classify.SenderMode(v)
	}
	if v := os.Getenv("SORTMATE_IGNORE_LABELS"); v != "" {
		c.IgnoreLabels = splitList(v)
	}
	if n, ok := envInt("SORTMATE_MAX_EMAILS"); ok {
		c.MaxEmails = n
	}
	if n, ok := envInt("SORTMATE_PAGE_SIZE"); ok {
		c.PageSize = n
	}
	if n, ok := envInt("SORTMATE_BATCH_SIZE"); ok {
		c.BatchSize = n
	}
	if n, ok := envInt("SORTMATE_RPS"); ok {
		c.RPS = n
	}
}

// optionsFromMethods maps "date,sender,keywords" style lists to classifier
// options. Unknown methods are ignored.
func optionsFromMethods(methods []string, senderMode string) classify.Options {
	opts := classify.Options{Sender: classify.SenderOptions{Mode: classify.ModeDomain}}
	for _, m := range methods {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "date":
			opts.Date = true
		case "sender":
			opts.Sender.Enabled = true
		case "keywords":
			opts.Keywords.Enabled = true
		}
	}
	if senderMode != "" {
		opts.Sender.Mode = classify.SenderMode(strings.ToLower(strings.TrimSpace(senderMode)))
	}
	return opts
}

// TopicPath renders the fully qualified Pub/Sub topic path.
func (c Config) TopicPath() string {
	if c.ProjectID == "" || c.Topic == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", c.ProjectID, c.Topic)
}

// ValidateMonitor checks the settings monitor mode cannot run without.
// Failing here is fatal for monitoring only, never for a completed sweep.
func (c Config) ValidateMonitor() error {
	if c.ProjectID == "" {
		return fmt.Errorf("monitoring requires GOOGLE_CLOUD_PROJECT")
	}
	if c.Topic == "" {
		return fmt.Errorf("monitoring requires SORTMATE_PUBSUB_TOPIC")
	}
	if c.Subscription == "" {
		return fmt.Errorf("monitoring requires SORTMATE_PUBSUB_SUBSCRIPTION")
	}
	return nil
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
