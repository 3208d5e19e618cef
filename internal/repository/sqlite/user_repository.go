package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
)

const createUsersTables = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS user_courses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL REFERENCES users(id),
	course_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_courses_user ON user_courses(user_id);
`

// user_courses has no foreign key on course_id: ownership rows may outlive
// the course they reference, and reads tolerate that.

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTables); err != nil {
		return fmt.Errorf("create users tables: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, full_name, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return repository.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, full_name, password_hash, created_at, updated_at
FROM users
WHERE username = ?`,
		username,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadCourseIDs(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, full_name, password_hash, created_at, updated_at
FROM users
WHERE id = ?`,
		id,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadCourseIDs(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListOwnedCourses joins ownership rows against the course table in append
// order. Rows whose course id no longer resolves drop out of the join.
func (r *UserRepository) ListOwnedCourses(ctx context.Context, userID string) ([]domain.CourseSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.title, c.instructor
FROM user_courses uc
INNER JOIN courses c ON c.id = uc.course_id
WHERE uc.user_id = ?
ORDER BY uc.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list owned courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.CourseSummary
	for rows.Next() {
		var c domain.CourseSummary
		if err := rows.Scan(&c.ID, &c.Title, &c.Instructor); err != nil {
			return nil, fmt.Errorf("scan owned course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned courses: %w", err)
	}
	return courses, nil
}

func (r *UserRepository) loadCourseIDs(ctx context.Context, user *domain.User) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT course_id FROM user_courses WHERE user_id = ? ORDER BY id`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("load user course ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan course id: %w", err)
		}
		user.Courses = append(user.Courses, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate course ids: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
