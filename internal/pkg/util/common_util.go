package util

import (
	"Inkwell/internal/pkg/consts"
	"strings"
)

// ParseTags normalizes a comma separated tag string: trimmed, '#' stripped, lowercased, deduplicated.
// Order of first appearance is kept.
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags applies the same normalization as ParseTags to an already split list.
func NormalizeTags(parts []string) []string {
	tagSet := make(map[string]struct{})
	tags := make([]string, 0, len(parts))

	for _, part := range parts {
		tagName := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(part, "#", "")))
		if tagName == "" {
			continue
		}
		if _, exists := tagSet[tagName]; !exists {
			tagSet[tagName] = struct{}{}
			tags = append(tags, tagName)
		}
	}

	return tags
}

// ParseTopics splits a comma separated interest string into uppercased topic codes.
// Malformed entries are dropped rather than reported.
func ParseTopics(raw string) []string {
	seen := make(map[string]struct{})
	topics := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		topics = append(topics, code)
	}
	return topics
}

// IsValidTopic reports whether code is one of the known topic codes.
func IsValidTopic(code string) bool {
	_, ok := consts.TopicNames[code]
	return ok
}

