package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedRankSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_feed_rank_seconds",
		Help:    "Time spent ranking a feed or recommendation request",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	RecommendFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_recommend_fallback_total",
		Help: "Recommendation requests served by the quality fallback",
	})

	ModerationChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_moderation_checks_total",
		Help: "Toxicity classifier calls by outcome",
	}, []string{"outcome"})

	CommentRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_comment_rejections_total",
		Help: "Rejected comment proposals by rule",
	}, []string{"rule"})

	ThreadIntegrityWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_thread_integrity_warnings_total",
		Help: "Reply targets whose parent chain was deeper than one hop",
	})

	CacheInvalidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_invalidations_total",
		Help: "Cache keys dropped by source",
	}, []string{"source"})
)

// MustRegister registers every collector on registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		FeedRankSeconds,
		RecommendFallbackTotal,
		ModerationChecksTotal,
		CommentRejectionsTotal,
		ThreadIntegrityWarningsTotal,
		CacheInvalidationsTotal,
	)
}
