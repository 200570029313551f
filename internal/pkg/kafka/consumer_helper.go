package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	batchSize        = 32
	batchTimeout     = 1 * time.Second
	retryMinInterval = 100 * time.Millisecond
	retryMaxInterval = 5 * time.Second
)

// errSkip marks a message that is valid but not addressed to the handler.
var errSkip = errors.New("message skipped")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch drains claim in batches of batchSize, flushing partial batches every batchTimeout.
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch runs logic on every message concurrently, retrying failures with capped
// backoff, then commits the batch through its last offset.
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			retryWithBackoff(session.Context(), m, logic)
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		session.MarkMessage(messages[len(messages)-1], "")
		session.Commit()
	}
}

func retryWithBackoff(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	retryInterval := retryMinInterval
	for {
		err := logic(ctx, m)
		if err == nil || errors.Is(err, errSkip) {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "err", err)
		time.Sleep(retryInterval)

		retryInterval *= 2
		if retryInterval > retryMaxInterval {
			retryInterval = retryMaxInterval
		}
	}
}

// ToCanalMessage decodes msg and checks it belongs to tableName. Undecodable or foreign
// messages are reported as errSkip so they are not retried forever.
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		log.Error("unmarshal canal message error", "offset", msg.Offset, "err", err)
		return nil, errors.Wrap(errSkip, err.Error())
	}

	if canalMsg.IsDDL || canalMsg.Table != tableName {
		return nil, errors.Wrapf(errSkip, "table %q", canalMsg.Table)
	}

	if len(canalMsg.Data) == 0 {
		return nil, errors.Wrap(errSkip, "data is empty")
	}

	return &canalMsg, nil
}
