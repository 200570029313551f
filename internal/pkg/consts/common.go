package consts

const (
	PostStatusDraft     int8 = 0
	PostStatusPublished int8 = 1
)

const (
	TopicTech    = "TECH"
	TopicPhil    = "PHIL"
	TopicScience = "SCI"
	TopicSociety = "SOC"
	TopicArt     = "ART"
	TopicLife    = "LIFE"

	DefaultTopic = TopicLife
)

// TopicNames maps topic codes to display names.
var TopicNames = map[string]string{
	TopicTech:    "Technology",
	TopicPhil:    "Philosophy",
	TopicScience: "Science",
	TopicSociety: "Society",
	TopicArt:     "Art & Culture",
	TopicLife:    "Life & Self",
}

const (
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

const (
	DeletedUserName = "Deleted User"
)
