package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("TASK_REMINDER_TIME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "09:00", cfg.TaskReminderTime)
	assert.Equal(t, "08:00", cfg.NotesDigestTime)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	content := []byte(`
port: "9090"
jwt_expiry: 24h
smtp_host: smtp.example.com
smtp_username: robot@example.com
notes_digest_time: "07:30"
log_pretty: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("MAIL_FROM", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "environment wins over file")
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, "07:30", cfg.NotesDigestTime)
	assert.Equal(t, "robot@example.com", cfg.MailFrom, "sender falls back to the SMTP username")
	assert.True(t, cfg.LogPretty)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := defaults()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
