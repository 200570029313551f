package kafka

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const postsTable = "posts"

// PostsHandler reacts to post row changes that invalidate derived caches: a new author
// changes which comments count as the author's, and publishing, unpublishing, retagging
// or deleting shifts the explore tag ranking.
type PostsHandler struct {
	statsKey func(postID uint64) string
}

func NewPostsHandler(statsKey func(postID uint64) string) *PostsHandler {
	return &PostsHandler{statsKey: statsKey}
}

func (s *PostsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer setup")
	return nil
}

func (s *PostsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer cleanup")
	return nil
}

func (s *PostsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-post consume claim")
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("topic-post process batch error", "err", err)
		return err
	}
	log.Info("topic-post consume claim end")
	return nil
}

func (s *PostsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, postsTable)
	if err != nil {
		return err
	}

	var keys []string
	tagsStale := false
	for i, row := range canalMsg.Data {
		published := StrToString(row["status"]) == "1"
		switch canalMsg.Type {
		case INSERT:
			tagsStale = tagsStale || published
		case DELETE:
			keys = append(keys, s.statsKey(StrToUint64(row["id"])))
			tagsStale = tagsStale || published
		case UPDATE:
			if canalMsg.changed(i, "user_id") {
				keys = append(keys, s.statsKey(StrToUint64(row["id"])))
			}
			if canalMsg.changed(i, "status") || (published && canalMsg.changed(i, "tags")) {
				tagsStale = true
			}
		}
	}
	if tagsStale {
		keys = append(keys, consts.ExploreTopTagsKey)
	}
	if len(keys) == 0 {
		return nil
	}

	if err = redis.DeleteKey(ctx, keys...); err != nil {
		if errors.Is(err, redis.ErrUnavailable) {
			return nil
		}
		return errors.Wrap(err, "invalidate post caches")
	}

	metrics.CacheInvalidationsTotal.WithLabelValues("canal_post").Add(float64(len(keys)))
	log.InfoContext(ctx, "post caches invalidated", "type", canalMsg.Type, "keys", keys)
	return nil
}
