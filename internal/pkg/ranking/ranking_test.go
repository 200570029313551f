package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

func ids(results []Result) []uint64 {
	out := make([]uint64, len(results))
	for i, r := range results {
		out[i] = r.PostID
	}
	return out
}

func TestQualityRatio(t *testing.T) {
	assert.Equal(t, 0.0, QualityRatio(0, 0))
	assert.Equal(t, 0.0, QualityRatio(3, 0))
	assert.Equal(t, 0.25, QualityRatio(1, 4))
	assert.Equal(t, 1.0, QualityRatio(2, 2))
}

func TestScore(t *testing.T) {
	p := Profile{ExplicitTopics: []string{"tech"}, ClickedTags: []string{"Golang"}}

	tests := []struct {
		name string
		c    Candidate
		want int
	}{
		{"exact tag", Candidate{Topic: "LIFE", Tags: []string{"golang"}}, RelevanceTag},
		{"candidate tag contains clicked", Candidate{Topic: "LIFE", Tags: []string{"golang-tips"}}, RelevanceTag},
		{"clicked contains candidate tag", Candidate{Topic: "LIFE", Tags: []string{"go"}}, RelevanceNone},
		{"clicked contains candidate tag on followed topic", Candidate{Topic: "TECH", Tags: []string{"go"}}, RelevanceTopic},
		{"tag beats topic, never additive", Candidate{Topic: "TECH", Tags: []string{"golang"}}, RelevanceTag},
		{"topic only", Candidate{Topic: "TECH", Tags: []string{"rust"}}, RelevanceTopic},
		{"nothing", Candidate{Topic: "ART", Tags: []string{"painting"}}, RelevanceNone},
		{"empty tags ignored", Candidate{Topic: "ART", Tags: []string{"", " "}}, RelevanceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(p, tt.c))
		})
	}
}

func TestScoreUnrelatedShortTag(t *testing.T) {
	p := Profile{ClickedTags: []string{"django"}}

	assert.Equal(t, RelevanceNone, Score(p, Candidate{Topic: "ART", Tags: []string{"go"}}))
	assert.Equal(t, RelevanceTag, Score(p, Candidate{Topic: "ART", Tags: []string{"django-rest"}}))
}

func TestScoreEmptyProfile(t *testing.T) {
	assert.True(t, Profile{}.Empty())
	assert.Equal(t, RelevanceNone, Score(Profile{}, Candidate{Topic: "TECH", Tags: []string{"go"}}))
}

func TestPersonalizedTagAboveTopic(t *testing.T) {
	p := Profile{ExplicitTopics: []string{"TECH"}, ClickedTags: []string{"python"}}
	candidates := []Candidate{
		{PostID: 1, Topic: "TECH", Tags: []string{"rust"}, CreatedAt: at(5)},
		{PostID: 2, Topic: "LIFE", Tags: []string{"python"}, CreatedAt: at(1)},
		{PostID: 3, Topic: "ART", CreatedAt: at(9)},
	}

	results := Personalized(p, candidates)

	assert.Equal(t, []uint64{2, 1, 3}, ids(results))
	assert.Equal(t, []int{5, 2, 0}, []int{results[0].Relevance, results[1].Relevance, results[2].Relevance})
}

func TestPersonalizedTieBreaks(t *testing.T) {
	p := Profile{ExplicitTopics: []string{"SCI"}}
	candidates := []Candidate{
		{PostID: 1, Topic: "SCI", CreatedAt: at(1), QualityRatio: 0.9},
		{PostID: 2, Topic: "SCI", CreatedAt: at(2), QualityRatio: 0.1},
		{PostID: 3, Topic: "SCI", CreatedAt: at(2), QualityRatio: 0.5},
	}

	assert.Equal(t, []uint64{3, 2, 1}, ids(Personalized(p, candidates)))
}

func TestRankingIsDeterministic(t *testing.T) {
	p := Profile{ImplicitTopics: []string{"PHIL"}, ClickedTags: []string{"stoic"}}
	candidates := []Candidate{
		{PostID: 4, Topic: "PHIL", CreatedAt: at(1)},
		{PostID: 7, Topic: "PHIL", CreatedAt: at(1)},
		{PostID: 2, Topic: "LIFE", Tags: []string{"stoicism"}, CreatedAt: at(1)},
		{PostID: 9, Topic: "SOC", CreatedAt: at(1)},
	}

	first := ids(Personalized(p, candidates))
	reversed := make([]Candidate, len(candidates))
	for i, c := range candidates {
		reversed[len(candidates)-1-i] = c
	}
	second := ids(Personalized(p, reversed))

	assert.Equal(t, first, second)
	assert.Equal(t, []uint64{2, 7, 4, 9}, first)
}

func TestChronological(t *testing.T) {
	candidates := []Candidate{
		{PostID: 1, CreatedAt: at(1)},
		{PostID: 2, CreatedAt: at(3), QualityRatio: 0.2},
		{PostID: 3, CreatedAt: at(3), QualityRatio: 0.8},
	}
	assert.Equal(t, []uint64{3, 2, 1}, ids(Chronological(candidates)))
}

func TestRecommendPrimary(t *testing.T) {
	p := Profile{ExplicitTopics: []string{"ART"}, ClickedTags: []string{"jazz"}}
	candidates := []Candidate{
		{PostID: 1, Topic: "ART", CreatedAt: at(1)},
		{PostID: 2, Topic: "LIFE", Tags: []string{"jazz"}, CreatedAt: at(1)},
		{PostID: 3, Topic: "ART", Tags: []string{"jazz"}, CreatedAt: at(2)},
		{PostID: 4, Topic: "SOC", CreatedAt: at(9)},
	}
	seen := map[uint64]struct{}{3: {}}

	results, fallback := Recommend(p, candidates, seen, 10)

	assert.False(t, fallback)
	assert.Equal(t, []uint64{2, 1}, ids(results))
}

func TestRecommendFallbackNeverEmpty(t *testing.T) {
	p := Profile{ExplicitTopics: []string{"TECH"}}
	candidates := []Candidate{
		{PostID: 1, Topic: "ART", CreatedAt: at(3), QualityRatio: 0.1},
		{PostID: 2, Topic: "SOC", CreatedAt: at(1), QualityRatio: 0.9},
		{PostID: 3, Topic: "LIFE", CreatedAt: at(2), QualityRatio: 0.9},
	}

	results, fallback := Recommend(p, candidates, nil, 10)

	require.True(t, fallback)
	assert.Equal(t, []uint64{3, 2, 1}, ids(results))
}

func TestRecommendRespectsLimit(t *testing.T) {
	candidates := make([]Candidate, 0, 15)
	for i := 1; i <= 15; i++ {
		candidates = append(candidates, Candidate{PostID: uint64(i), Topic: "TECH", CreatedAt: at(i)})
	}

	results, fallback := Recommend(Profile{ExplicitTopics: []string{"TECH"}}, candidates, nil, 10)

	assert.False(t, fallback)
	assert.Len(t, results, 10)
	assert.Equal(t, uint64(15), results[0].PostID)
}

func TestRecommendAllSeen(t *testing.T) {
	candidates := []Candidate{{PostID: 1, Topic: "TECH", CreatedAt: at(1)}}
	results, fallback := Recommend(Profile{}, candidates, map[uint64]struct{}{1: {}}, 10)

	assert.True(t, fallback)
	assert.Empty(t, results)
}
