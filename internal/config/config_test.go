package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/sortmate/internal/classify"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SORTMATE_AUTH_DIR", "GOOGLE_CLOUD_PROJECT", "SORTMATE_PUBSUB_TOPIC",
		"SORTMATE_PUBSUB_SUBSCRIPTION", "SORTMATE_SORT_BY", "SORTMATE_SENDER_MODE",
		"SORTMATE_IGNORE_LABELS", "SORTMATE_MAX_EMAILS", "SORTMATE_PAGE_SIZE",
		"SORTMATE_BATCH_SIZE", "SORTMATE_RPS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Config{PageSize: 100, BatchSize: 5, Options: classify.DefaultOptions()}
	cfg.applyEnv()

	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.True(t, cfg.Options.Date)
	assert.False(t, cfg.Options.Sender.Enabled)
	assert.False(t, cfg.Options.Keywords.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "my-project")
	t.Setenv("SORTMATE_PUBSUB_TOPIC", "gmail-events")
	t.Setenv("SORTMATE_PUBSUB_SUBSCRIPTION", "gmail-events-sub")
	t.Setenv("SORTMATE_SORT_BY", "date, sender, keywords")
	t.Setenv("SORTMATE_SENDER_MODE", "organization")
	t.Setenv("SORTMATE_MAX_EMAILS", "250")
	t.Setenv("SORTMATE_IGNORE_LABELS", "SPAM,TRASH,DRAFT")

	cfg := Config{Options: classify.DefaultOptions()}
	cfg.applyEnv()

	assert.Equal(t, "my-project", cfg.ProjectID)
	assert.Equal(t, "projects/my-project/topics/gmail-events", cfg.TopicPath())
	assert.True(t, cfg.Options.Date)
	assert.True(t, cfg.Options.Sender.Enabled)
	assert.Equal(t, classify.ModeOrganization, cfg.Options.Sender.Mode)
	assert.True(t, cfg.Options.Keywords.Enabled)
	assert.Equal(t, 250, cfg.MaxEmails)
	assert.Equal(t, []string{"SPAM", "TRASH", "DRAFT"}, cfg.IgnoreLabels)
}

func TestConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"sorting_methods": ["date", "keywords"],
		"keywords": {"alerts": ["pagerduty", "oncall"]},
		"max_emails": 50
	}`), 0o600))

	cfg := Config{Options: classify.DefaultOptions()}
	require.NoError(t, cfg.applyFile(path))

	assert.True(t, cfg.Options.Date)
	assert.False(t, cfg.Options.Sender.Enabled)
	assert.True(t, cfg.Options.Keywords.Enabled)
	require.Len(t, cfg.Options.Keywords.Categories, 1)
	assert.Equal(t, "alerts", cfg.Options.Keywords.Categories[0].Name)
	assert.Equal(t, 50, cfg.MaxEmails)
}

func TestConfigFileMissingIsFine(t *testing.T) {
	cfg := Config{}
	assert.NoError(t, cfg.applyFile(filepath.Join(t.TempDir(), "nope.json")))
}

func TestConfigFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	cfg := Config{}
	assert.Error(t, cfg.applyFile(path))
}

func TestValidateMonitor(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.ValidateMonitor())

	cfg.ProjectID = "p"
	assert.Error(t, cfg.ValidateMonitor())

	cfg.Topic = "t"
	assert.Error(t, cfg.ValidateMonitor())

	cfg.Subscription = "s"
	assert.NoError(t, cfg.ValidateMonitor())
}
