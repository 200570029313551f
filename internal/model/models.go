package model

// All lists every table owned by the application, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Post{},
		&PostComment{},
		&Interaction{},
		&Bookmark{},
	}
}
