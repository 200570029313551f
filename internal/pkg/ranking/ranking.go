// Package ranking scores and orders feed candidates against a reader's interest profile.
// It holds no state and performs no I/O.
package ranking

import (
	"sort"
	"strings"
	"time"
)

const (
	RelevanceNone  = 0
	RelevanceTopic = 2
	RelevanceTag   = 5
)

// Profile is the per-request interest profile of a reader. It is never persisted.
type Profile struct {
	ExplicitTopics []string
	ImplicitTopics []string
	ClickedTags    []string
}

// Empty reports whether the profile carries no signal at all.
func (p Profile) Empty() bool {
	return len(p.ExplicitTopics) == 0 && len(p.ImplicitTopics) == 0 && len(p.ClickedTags) == 0
}

// Topics returns explicit ∪ implicit topics as a set.
func (p Profile) Topics() map[string]struct{} {
	set := make(map[string]struct{}, len(p.ExplicitTopics)+len(p.ImplicitTopics))
	for _, t := range p.ExplicitTopics {
		set[strings.ToUpper(t)] = struct{}{}
	}
	for _, t := range p.ImplicitTopics {
		set[strings.ToUpper(t)] = struct{}{}
	}
	return set
}

// Candidate is the ranking view of a published post.
type Candidate struct {
	PostID       uint64
	Topic        string
	Tags         []string
	CreatedAt    time.Time
	QualityRatio float64
}

// Result is a candidate annotated with its relevance for one reader.
type Result struct {
	Candidate
	Relevance int
}

// QualityRatio is opReplies / totalComments, 0 when there are no comments.
func QualityRatio(opReplies, totalComments int64) float64 {
	if totalComments <= 0 {
		return 0
	}
	return float64(opReplies) / float64(totalComments)
}

// Scorer evaluates candidates against a fixed profile.
type Scorer struct {
	topics map[string]struct{}
	tags   []string
}

func NewScorer(p Profile) *Scorer {
	tags := make([]string, 0, len(p.ClickedTags))
	for _, t := range p.ClickedTags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	return &Scorer{topics: p.Topics(), tags: tags}
}

// Score returns 5 when a candidate tag contains a clicked tag, else 2 on a topic match, else 0.
// The first matching rule wins; scores never add up.
func (s *Scorer) Score(c Candidate) int {
	if s.matchesTag(c.Tags) {
		return RelevanceTag
	}
	if _, ok := s.topics[strings.ToUpper(c.Topic)]; ok {
		return RelevanceTopic
	}
	return RelevanceNone
}

func (s *Scorer) matchesTag(candidateTags []string) bool {
	for _, raw := range candidateTags {
		ct := strings.ToLower(strings.TrimSpace(raw))
		if ct == "" {
			continue
		}
		for _, clicked := range s.tags {
			if strings.Contains(ct, clicked) {
				return true
			}
		}
	}
	return false
}

// Score is a convenience wrapper for a single candidate.
func Score(p Profile, c Candidate) int {
	return NewScorer(p).Score(c)
}

// Annotate scores every candidate without reordering.
func Annotate(p Profile, candidates []Candidate) []Result {
	scorer := NewScorer(p)
	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{Candidate: c, Relevance: scorer.Score(c)}
	}
	return results
}

// Plain wraps candidates as results with zero relevance.
func Plain(candidates []Candidate) []Result {
	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{Candidate: c}
	}
	return results
}

// Personalized orders by (relevance desc, created_at desc, quality desc).
func Personalized(p Profile, candidates []Candidate) []Result {
	results := Annotate(p, candidates)
	SortByRelevance(results)
	return results
}

// Chronological orders by (created_at desc, quality desc); the anonymous feed.
func Chronological(candidates []Candidate) []Result {
	results := Plain(candidates)
	SortByRecency(results)
	return results
}

// Recommend returns at most limit unseen candidates with relevance > 0, or, when none
// qualify, the top candidates by (quality desc, created_at desc). fallback reports the latter.
func Recommend(p Profile, candidates []Candidate, seen map[uint64]struct{}, limit int) (results []Result, fallback bool) {
	unseen := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.PostID]; !ok {
			unseen = append(unseen, c)
		}
	}

	scored := Annotate(p, unseen)
	primary := make([]Result, 0, len(scored))
	for _, r := range scored {
		if r.Relevance > RelevanceNone {
			primary = append(primary, r)
		}
	}

	if len(primary) > 0 {
		SortByRelevance(primary)
		return truncate(primary, limit), false
	}

	SortByQuality(scored)
	return truncate(scored, limit), true
}

func truncate(results []Result, limit int) []Result {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// newer breaks remaining ties by id so equal inputs always give equal output.
func newer(a, b Result) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.PostID > b.PostID
}

func SortByRelevance(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.QualityRatio != b.QualityRatio {
			return a.QualityRatio > b.QualityRatio
		}
		return a.PostID > b.PostID
	})
}

func SortByRecency(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.QualityRatio != b.QualityRatio {
			return a.QualityRatio > b.QualityRatio
		}
		return a.PostID > b.PostID
	})
}

func SortByQuality(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.QualityRatio != b.QualityRatio {
			return a.QualityRatio > b.QualityRatio
		}
		return newer(a, b)
	})
}
