package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// CourseService coordinates course creation, lookup and search.
type CourseService interface {
	Create(ctx context.Context, actingUsername, title, description, schedule string) (*domain.CourseSummary, error)
	FindAll(ctx context.Context, page, limit int) ([]domain.Course, error)
	FindByTitle(ctx context.Context, search string, page, limit int, order repository.SortOrder) ([]domain.Course, error)
	FindByTitleAndInstructor(ctx context.Context, search, instructor string, page, limit int, order repository.SortOrder) ([]domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	GetMyCourses(ctx context.Context, username string) ([]domain.CourseSummary, error)
}

type courseService struct {
	courses repository.CourseRepository
	users   repository.UserRepository
}

func NewCourseService(courses repository.CourseRepository, users repository.UserRepository) CourseService {
	return &courseService{
		courses: courses,
		users:   users,
	}
}

// Create persists a new course owned by the acting user. The instructor field
// is always the acting user's full name, never client input. The course row
// and the ownership row are written in one transaction.
func (s *courseService) Create(ctx context.Context, actingUsername, title, description, schedule string) (*domain.CourseSummary, error) {
	if title == "" {
		return nil, validationErrorf("title is required")
	}
	if description == "" {
		return nil, validationErrorf("description is required")
	}
	if schedule == "" {
		return nil, validationErrorf("schedule is required")
	}

	user, err := s.users.GetByUsername(ctx, actingUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	course := &domain.Course{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Instructor:  user.FullName,
		Schedule:    schedule,
	}

	if err := s.courses.CreateOwned(ctx, course, user.ID); err != nil {
		return nil, err
	}

	return &domain.CourseSummary{
		ID:         course.ID,
		Title:      course.Title,
		Instructor: course.Instructor,
	}, nil
}

func (s *courseService) FindAll(ctx context.Context, page, limit int) ([]domain.Course, error) {
	offset, limit := pageWindow(page, limit)
	return s.courses.List(ctx, offset, limit)
}

func (s *courseService) FindByTitle(ctx context.Context, search string, page, limit int, order repository.SortOrder) ([]domain.Course, error) {
	offset, limit := pageWindow(page, limit)
	return s.courses.SearchByTitle(ctx, search, offset, limit, order)
}

func (s *courseService) FindByTitleAndInstructor(ctx context.Context, search, instructor string, page, limit int, order repository.SortOrder) ([]domain.Course, error) {
	offset, limit := pageWindow(page, limit)
	return s.courses.SearchByTitleAndInstructor(ctx, search, instructor, offset, limit, order)
}

func (s *courseService) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetMyCourses lists the acting user's owned courses in creation order.
// Ownership entries whose course no longer exists are skipped.
func (s *courseService) GetMyCourses(ctx context.Context, username string) ([]domain.CourseSummary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.users.ListOwnedCourses(ctx, user.ID)
}

func pageWindow(page, limit int) (offset, capped int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return (page - 1) * limit, limit
}
