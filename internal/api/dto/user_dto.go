package dto

type TopicDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type UserProfileDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	AvatarURL *string     `json:"avatar_url"`
	Bio       string      `json:"bio"`
	Interests []*TopicDTO `json:"interests"`
}

type UpdateInterestsDTO struct {
	Interests []string `json:"interests" binding:"required" validate:"max=6,dive,topic"`
}
