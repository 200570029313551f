package kafka

import (
	"Inkwell/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager runs the canal binlog consumers.
type ConsumerManager struct {
	consumers []*consumer
}

// NewConsumerManager joins one consumer group per watched table. statsKey names the comment
// stats cache entry of a post.
func NewConsumerManager(cfg *config.Config, statsKey func(postID uint64) string) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	commentsGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, errors.Wrap(err, "join comment consumer group")
	}

	postsGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaPostConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = commentsGroup.Close()
		return nil, errors.Wrap(err, "join post consumer group")
	}

	return &ConsumerManager{
		consumers: []*consumer{
			{name: "comment", topic: cfg.KafkaCommentConsumer.Topic, group: commentsGroup, handler: NewCommentsHandler(statsKey)},
			{name: "post", topic: cfg.KafkaPostConsumer.Topic, group: postsGroup, handler: NewPostsHandler(statsKey)},
		},
	}, nil
}

// Start consumes until ctx is cancelled, then closes every group.
func (m *ConsumerManager) Start(ctx context.Context) error {
	for _, c := range m.consumers {
		go m.run(ctx, c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "consumer", c.name, "err", err)
		}
	}
	return nil
}

func (m *ConsumerManager) run(ctx context.Context, c *consumer) {
	log.Info("consumer started", "consumer", c.name, "topic", c.topic)
	go func() {
		for err := range c.group.Errors() {
			log.Error("consumer group error", "consumer", c.name, "err", err)
		}
	}()
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("Error from consumer", "consumer", c.name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
