package repository

import (
	"context"

	"coursehub/internal/domain"
)

// SortOrder selects the title ordering for course searches.
type SortOrder int

const (
	SortAsc  SortOrder = 1
	SortDesc SortOrder = -1
)

// CourseRepository exposes persistence operations for Course entities.
type CourseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, course *domain.Course) error
	// CreateOwned inserts the course and records ownership for ownerID in a
	// single transaction.
	CreateOwned(ctx context.Context, course *domain.Course, ownerID string) error
	Get(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, offset, limit int) ([]domain.Course, error)
	SearchByTitle(ctx context.Context, search string, offset, limit int, order SortOrder) ([]domain.Course, error)
	SearchByTitleAndInstructor(ctx context.Context, search, instructor string, offset, limit int, order SortOrder) ([]domain.Course, error)
	Delete(ctx context.Context, id string) error
}
