package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg is the process-wide configuration, set by LoadConfig.
var Cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.jwt_secret", "inkwell")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 60)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("logstash.index", "logstash-inkwell")
	v.SetDefault("moderation.timeout", 2*time.Second)
	v.SetDefault("feed.page_size", 20)
	v.SetDefault("feed.feed_window", 20)
	v.SetDefault("feed.recommend_window", 50)
	v.SetDefault("feed.recommend_limit", 10)
	v.SetDefault("feed.explore_tag_limit", 10)
	v.SetDefault("feed.comment_stats_ttl_min", 60)
	v.SetDefault("feed.candidate_limit", 0)
	v.SetDefault("cron.trending_tags", "@every 10m")
}

// LoadConfig reads ./configs/config.yaml, then INKWELL_* environment overrides, into Cfg.
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}
