package repository

import (
	"context"

	"coursehub/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ListOwnedCourses resolves the user's owned course ids against the course
	// table in one query, in append order. Ids that no longer resolve are
	// dropped from the result.
	ListOwnedCourses(ctx context.Context, userID string) ([]domain.CourseSummary, error)
}
