package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	require.NoError(t, LoadConfig())

	assert.Equal(t, 8080, Cfg.Server.Port)
	assert.Equal(t, 2*time.Second, Cfg.Moderation.Timeout)
	assert.Equal(t, 20, Cfg.Feed.FeedWindow)
	assert.Equal(t, 50, Cfg.Feed.RecommendWindow)
	assert.Equal(t, 10, Cfg.Feed.RecommendLimit)
	assert.Equal(t, "@every 10m", Cfg.Cron.TrendingTags)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("INKWELL_SERVER_PORT", "9090")
	t.Setenv("INKWELL_MODERATION_TIMEOUT", "500ms")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 9090, Cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, Cfg.Moderation.Timeout)
}
