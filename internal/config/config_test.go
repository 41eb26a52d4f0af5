package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/alerts")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ALERT_CHANNEL_ID", "111222333")
}

func TestLoadMissingRequiredListsAll(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("ALERT_CHANNEL_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
	assert.Contains(t, err.Error(), "ALERT_CHANNEL_ID")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultEventsURL, cfg.EventsURL)
	assert.Equal(t, "NA", cfg.Region)
	assert.Equal(t, []int{10, 1}, cfg.LeadMinutes)
	assert.Equal(t, 20*time.Second, cfg.Tolerance)
	assert.Equal(t, "*/1 * * * *", cfg.TickCron)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Empty(t, cfg.AdminToken)
	assert.Len(t, cfg.Targets, len(DefaultTargets))
}

func TestLoadLowercasesTargets(t *testing.T) {
	setRequired(t)
	t.Setenv("ALERT_TARGETS", "Kraken, Black Dragon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kraken", "black dragon"}, cfg.Targets)
}

func TestLoadLeadMinutes(t *testing.T) {
	setRequired(t)
	t.Setenv("ALERT_LEAD_MINUTES", "30,10,1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int{30, 10, 1}, cfg.LeadMinutes)
}

func TestLoadBadLeadMinutes(t *testing.T) {
	setRequired(t)
	t.Setenv("ALERT_LEAD_MINUTES", "10,soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALERT_LEAD_MINUTES")
}

func TestLoadZeroToleranceRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("TOLERANCE_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	assert.Equal(t, "value", envOr("X_STR", "fallback"))
	assert.Equal(t, "fallback", envOr("X_STR_UNSET", "fallback"))

	t.Setenv("X_INT", "42")
	assert.Equal(t, 42, envInt("X_INT", 7))
	t.Setenv("X_INT_BAD", "forty-two")
	assert.Equal(t, 7, envInt("X_INT_BAD", 7))

	t.Setenv("X_BOOL", "true")
	assert.True(t, envBool("X_BOOL", false))

	t.Setenv("X_LIST", " a , , b ")
	assert.Equal(t, []string{"a", "b"}, envList("X_LIST", nil))
}
