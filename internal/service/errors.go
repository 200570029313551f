package service

import (
	"Inkwell/internal/pkg/thread"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Unprocessable       = 422
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid          = errors.New("invalid parameters")
	ErrLoginRequired         = errors.New("login required")
	ErrUserNotFound          = errors.New("user not found")
	ErrPostNotFound          = errors.New("post not found")
	ErrPostCommentNotFound   = errors.New("comment not found")
	ErrPostRejected          = errors.New("Post blocked")
	ErrCommentRejected       = errors.New("Comment blocked")
	ErrModerationUnavailable = errors.New("content moderation is temporarily unavailable, please retry")
	UnauthorizedError        = errors.New("permission denied")
	UnExpectedError          = errors.New("unexpected error, please retry later")
)

// ErrorMap translates service errors into business codes. Wrapped errors match by errors.Is.
var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrLoginRequired:           Unauthorized,
	ErrUserNotFound:            NotFound,
	ErrPostNotFound:            NotFound,
	ErrPostCommentNotFound:     NotFound,
	ErrPostRejected:            Unprocessable,
	ErrCommentRejected:         Unprocessable,
	ErrModerationUnavailable:   ServiceUnavailable,
	UnauthorizedError:          Forbidden,
	UnExpectedError:            InternalServerError,
	thread.ErrRestrictedThread: Forbidden,
	thread.ErrParentNotFound:   NotFound,
	thread.ErrParentMismatch:   BadRequest,
	thread.ErrBrokenThread:     Unprocessable,
}

// CodeOf resolves the business code of err, reporting false for unmapped errors.
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
