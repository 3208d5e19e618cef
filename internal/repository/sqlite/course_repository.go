package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
)

const createCoursesTable = `
CREATE TABLE IF NOT EXISTS courses (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	instructor TEXT NOT NULL,
	schedule TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_courses_title ON courses(title COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_courses_instructor ON courses(instructor COLLATE NOCASE);
`

const courseColumns = `id, title, description, instructor, schedule, created_at, updated_at`

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) repository.CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCoursesTable); err != nil {
		return fmt.Errorf("create courses table: %w", err)
	}
	return nil
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	if err := insertCourse(ctx, r.db, course); err != nil {
		return err
	}
	return nil
}

// CreateOwned inserts the course and the owner's ownership row in one
// transaction, so a course can never be persisted half-linked.
func (r *CourseRepository) CreateOwned(ctx context.Context, course *domain.Course, ownerID string) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create owned: %w", err)
	}
	defer tx.Rollback()

	if err := insertCourse(ctx, tx, course); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO user_courses (user_id, course_id) VALUES (?, ?)`,
		ownerID, course.ID,
	); err != nil {
		return fmt.Errorf("insert ownership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create owned: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertCourse(ctx context.Context, ex execer, course *domain.Course) error {
	if _, err := ex.ExecContext(ctx, `
INSERT INTO courses (id, title, description, instructor, schedule, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.Title,
		course.Description,
		course.Instructor,
		course.Schedule,
		course.CreatedAt,
		course.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) Get(ctx context.Context, id string) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+courseColumns+`
FROM courses
WHERE id = ?`,
		id,
	)
	return scanCourse(row)
}

func (r *CourseRepository) List(ctx context.Context, offset, limit int) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+courseColumns+`
FROM courses
LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return collectCourses(rows)
}

func (r *CourseRepository) SearchByTitle(ctx context.Context, search string, offset, limit int, order repository.SortOrder) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+courseColumns+`
FROM courses
WHERE lower(title) LIKE '%' || lower(?) || '%'
ORDER BY title COLLATE NOCASE `+direction(order)+`
LIMIT ? OFFSET ?`,
		search, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("search courses by title: %w", err)
	}
	return collectCourses(rows)
}

func (r *CourseRepository) SearchByTitleAndInstructor(ctx context.Context, search, instructor string, offset, limit int, order repository.SortOrder) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+courseColumns+`
FROM courses
WHERE lower(title) LIKE '%' || lower(?) || '%'
  AND lower(instructor) LIKE '%' || lower(?) || '%'
ORDER BY title COLLATE NOCASE `+direction(order)+`
LIMIT ? OFFSET ?`,
		search, instructor, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("search courses by title and instructor: %w", err)
	}
	return collectCourses(rows)
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func direction(order repository.SortOrder) string {
	if order == repository.SortDesc {
		return "DESC"
	}
	return "ASC"
}

func collectCourses(rows *sql.Rows) ([]domain.Course, error) {
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Instructor,
			&c.Schedule,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

func scanCourse(row interface {
	Scan(dest ...any) error
}) (*domain.Course, error) {
	var c domain.Course
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Instructor,
		&c.Schedule,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrCourseNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}
	return &c, nil
}
