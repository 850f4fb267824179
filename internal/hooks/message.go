package hooks

import (
	"context"
	"errors"

	"devmart/internal/repository"
)

// Message turns a fetch or mutation failure into text fit for end users.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}

	switch repository.KindOf(err) {
	case repository.KindValidation:
		return "Some fields are invalid. Please check the form and try again."
	case repository.KindNotFound:
		return "The requested item no longer exists."
	case repository.KindConflict:
		return "An item with the same slug already exists."
	case repository.KindUnauthorized:
		return "Your session has expired. Please sign in again."
	case repository.KindTransient:
		return "The server is temporarily unavailable. Please try again in a moment."
	case repository.KindShape:
		return "The server returned data we could not read."
	default:
		return "Something went wrong. Please try again."
	}
}
