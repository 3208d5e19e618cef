package repository

import "errors"

// Common repository errors.
var (
	// ErrUserNotFound indicates that no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a username collision on insert.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrCourseNotFound indicates that no course matched the lookup.
	ErrCourseNotFound = errors.New("course not found")
)
