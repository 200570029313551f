package config

import "time"

// Config is the root of configs/config.yaml.
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	Moderation           ModerationConfig     `mapstructure:"moderation"`
	Feed                 FeedConfig           `mapstructure:"feed"`
	Cron                 CronConfig           `mapstructure:"cron"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaCommentConsumer KafkaCommentConsumer `mapstructure:"kafka_comment_consumer"`
	KafkaPostConsumer    KafkaPostConsumer    `mapstructure:"kafka_post_consumer"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
	// AllowOrigins lists the browser origins allowed by CORS; empty allows any origin.
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql | sqlite
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// ModerationConfig points at the toxicity classifier.
type ModerationConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedConfig holds the ranking knobs.
type FeedConfig struct {
	PageSize           int `mapstructure:"page_size"`
	FeedWindow         int `mapstructure:"feed_window"`
	RecommendWindow    int `mapstructure:"recommend_window"`
	RecommendLimit     int `mapstructure:"recommend_limit"`
	ExploreTagLimit    int `mapstructure:"explore_tag_limit"`
	CommentStatsTTLMin int `mapstructure:"comment_stats_ttl_min"`
	CandidateLimit     int `mapstructure:"candidate_limit"` // 0 ranks every published post
}

type CronConfig struct {
	TrendingTags string `mapstructure:"trending_tags"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaCommentConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaPostConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
