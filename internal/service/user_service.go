package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
)

type UserService interface {
	GetProfile(ctx context.Context, id uint64) (*dto.UserProfileDTO, error)
	UpdateInterests(ctx context.Context, id uint64, req *dto.UpdateInterestsDTO) (*dto.UserProfileDTO, error)
	Logout(ctx context.Context, token string) error
}

type UserServiceImpl struct {
	userRepo     repository.UserRepo
	interestRepo repository.UserInterestRepo
}

func NewUserService(userRepo repository.UserRepo, interestRepo repository.UserInterestRepo) UserService {
	return &UserServiceImpl{
		userRepo:     userRepo,
		interestRepo: interestRepo,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, id uint64) (*dto.UserProfileDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profileDTO := &dto.UserProfileDTO{}
	if err = copier.Copy(profileDTO, user); err != nil {
		return nil, err
	}
	profileDTO.AvatarURL = user.Profile.AvatarURL
	profileDTO.Bio = user.Profile.Bio
	profileDTO.Interests = topicDTOs(util.ParseTopics(user.Profile.Interests))
	return profileDTO, nil
}

// UpdateInterests replaces the explicit topic list. Unknown codes are rejected.
func (s *UserServiceImpl) UpdateInterests(ctx context.Context, id uint64, req *dto.UpdateInterestsDTO) (*dto.UserProfileDTO, error) {
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	topics := util.ParseTopics(strings.Join(req.Interests, ","))
	if err = s.interestRepo.SaveUserInterests(ctx, id, strings.Join(topics, ",")); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

// Logout revokes the token until it would have expired anyway.
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrParamInvalid
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, true, security.JWTExpirationTime)
}

func topicDTOs(codes []string) []*dto.TopicDTO {
	out := make([]*dto.TopicDTO, 0, len(codes))
	for _, code := range codes {
		if name, ok := consts.TopicNames[code]; ok {
			out = append(out, &dto.TopicDTO{Code: code, Name: name})
		}
	}
	return out
}
