package kafka

import (
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const commentsTable = "post_comments"

// CommentsHandler drops cached comment stats of every post whose comments changed. It
// catches writes that bypass the API, such as admin tooling and bulk imports.
type CommentsHandler struct {
	statsKey func(postID uint64) string
}

func NewCommentsHandler(statsKey func(postID uint64) string) *CommentsHandler {
	return &CommentsHandler{statsKey: statsKey}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comment stats consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comment stats consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim")
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, commentsTable)
	if err != nil {
		return err
	}
	switch canalMsg.Type {
	case INSERT, UPDATE, DELETE:
	default:
		return nil
	}

	keys := s.affectedKeys(canalMsg)
	if len(keys) == 0 {
		return nil
	}
	if err = redis.DeleteKey(ctx, keys...); err != nil {
		if errors.Is(err, redis.ErrUnavailable) {
			return nil
		}
		return errors.Wrap(err, "invalidate comment stats")
	}

	metrics.CacheInvalidationsTotal.WithLabelValues("canal_comment").Add(float64(len(keys)))
	log.InfoContext(ctx, "comment stats invalidated", "type", canalMsg.Type, "keys", keys)
	return nil
}

// affectedKeys covers both sides of a comment moved between posts.
func (s *CommentsHandler) affectedKeys(msg *CanalMessage) []string {
	seen := make(map[uint64]struct{})
	keys := make([]string, 0, len(msg.Data))
	add := func(id uint64) {
		if id == 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		keys = append(keys, s.statsKey(id))
	}

	for i, row := range msg.Data {
		add(StrToUint64(row["post_id"]))
		if msg.Type == UPDATE && msg.changed(i, "post_id") {
			add(StrToUint64(msg.Old[i]["post_id"]))
		}
	}
	return keys
}
