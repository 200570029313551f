package service

import (
	"Inkwell/internal/pkg/ranking"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
)

// InterestService derives a reader's interest profile on demand. Profiles are never stored.
type InterestService interface {
	// BuildProfile scans the newest window interactions. It never fails: unreadable inputs
	// are logged and leave the affected part of the profile empty. seen holds every post
	// touched inside the window.
	BuildProfile(ctx context.Context, userID uint64, window int) (profile ranking.Profile, seen map[uint64]struct{})
}

type interestServiceImpl struct {
	interestRepo repository.UserInterestRepo
	actionRepo   repository.PostActionRepo
}

func NewInterestService(interestRepo repository.UserInterestRepo, actionRepo repository.PostActionRepo) InterestService {
	return &interestServiceImpl{
		interestRepo: interestRepo,
		actionRepo:   actionRepo,
	}
}

func (s *interestServiceImpl) BuildProfile(ctx context.Context, userID uint64, window int) (ranking.Profile, map[uint64]struct{}) {
	profile := ranking.Profile{}
	seen := make(map[uint64]struct{})
	if userID == 0 {
		return profile, seen
	}

	stored, err := s.interestRepo.GetUserProfile(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "explicit interests unavailable", "user_id", userID, "err", err)
	} else if stored != nil {
		profile.ExplicitTopics = util.ParseTopics(stored.Interests)
	}

	interactions, err := s.actionRepo.GetRecentInteractions(ctx, userID, window)
	if err != nil {
		log.WarnContext(ctx, "interaction history unavailable", "user_id", userID, "err", err)
		return profile, seen
	}

	topics := make(map[string]struct{})
	tags := make(map[string]struct{})
	for _, in := range interactions {
		seen[in.PostID] = struct{}{}
		post := in.Post
		// posts that no longer exist, or the reader's own, carry no interest signal
		if post.ID == 0 || post.UserID == userID {
			continue
		}
		if post.Topic != "" {
			if _, ok := topics[post.Topic]; !ok {
				topics[post.Topic] = struct{}{}
				profile.ImplicitTopics = append(profile.ImplicitTopics, post.Topic)
			}
		}
		for _, tag := range util.NormalizeTags(post.Tags) {
			if _, ok := tags[tag]; !ok {
				tags[tag] = struct{}{}
				profile.ClickedTags = append(profile.ClickedTags, tag)
			}
		}
	}
	return profile, seen
}
