package models

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures by how they surface at the request boundary.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindUpstreamTimeout
	KindUpstreamRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	case KindUpstreamRateLimited:
		return "upstream_rate_limited"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status for the kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a classified error whose Message is safe to show to the user.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a 400-class error with a user-facing message.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

var (
	ErrInvalidEmailDomain = &AppError{Kind: KindValidation, Message: "Only Gmail accounts are allowed (@gmail.com)"}
	ErrDuplicateEmail     = &AppError{Kind: KindValidation, Message: "Email already registered"}
	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = &AppError{Kind: KindValidation, Message: "Invalid email or password"}
	ErrEmptyText          = &AppError{Kind: KindValidation, Message: "Comment text cannot be empty"}
	ErrTextTooLong        = &AppError{Kind: KindValidation, Message: "Comment text is too long"}
	ErrMissingArticleID   = &AppError{Kind: KindValidation, Message: "Article ID is required"}
	ErrUnknownLeague      = &AppError{Kind: KindValidation, Message: "Invalid league"}

	ErrMissingToken = &AppError{Kind: KindAuth, Message: "No token provided"}
	ErrInvalidToken = &AppError{Kind: KindAuth, Message: "Invalid token"}

	ErrUserNotFound    = &AppError{Kind: KindNotFound, Message: "User not found"}
	ErrCommentNotFound = &AppError{Kind: KindNotFound, Message: "Comment not found"}
	ErrArticleNotFound = &AppError{Kind: KindNotFound, Message: "Article not found"}
	ErrNoStatsData     = &AppError{Kind: KindNotFound, Message: "No standings data available"}

	ErrUpstreamTimeout     = &AppError{Kind: KindUpstreamTimeout, Message: "Request timeout - upstream provider is slow"}
	ErrUpstreamRateLimited = &AppError{Kind: KindUpstreamRateLimited, Message: "API rate limit reached"}
)

// KindOf finds the first AppError in err's chain; unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// PublicMessage returns the message that may be shown to clients for err.
func PublicMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "Internal server error"
}
