package api

import "Inkwell/internal/api/handler"

// HandlersGroup bundles every initialised handler for the router.
type HandlersGroup struct {
	PostHandler       *handler.PostHandler
	PostActionHandler *handler.PostActionHandler
	CommentHandler    *handler.CommentHandler
	ExploreHandler    *handler.ExploreHandler
	UserHandler       *handler.UserHandler
}
