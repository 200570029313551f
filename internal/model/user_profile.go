package model

type UserProfile struct {
	UserID        uint64  `gorm:"primaryKey"`
	AvatarURL     *string `gorm:"type:varchar(512);column:avatar_url"`
	Bio           string  `gorm:"type:varchar(255);not null;default:''"`
	Interests     string  `gorm:"type:varchar(255);not null;default:''"` // comma separated topic codes
	IsSoftDeleted bool    `gorm:"type:tinyint(1);not null;default:0"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
