package consts

const (
	PostCommentStatsKey = "post:comment:stats:"
	ExploreTopTagsKey   = "explore:top_tags"
	TokenBlacklistKey   = "token:blacklist:"
)

const (
	ExploreRefreshLock = "lock:explore:refresh"
)
