package kafka

import (
	"Inkwell/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

// newSaramaConfig builds the shared consumer configuration. Offsets are committed by
// processBatch only after a batch is handled.
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false

	if v := kafkaCfg.Consumer.SessionTimeout; v > 0 {
		c.Consumer.Group.Session.Timeout = time.Duration(v) * time.Second
	}
	if v := kafkaCfg.Consumer.HeartbeatInterval; v > 0 {
		c.Consumer.Group.Heartbeat.Interval = time.Duration(v) * time.Second
	}
	if v := kafkaCfg.Consumer.RebalanceTimeout; v > 0 {
		c.Consumer.Group.Rebalance.Timeout = time.Duration(v) * time.Second
	}
	if v := kafkaCfg.Consumer.MaxProcessingTime; v > 0 {
		c.Consumer.MaxProcessingTime = time.Duration(v) * time.Second
	}

	return c
}
