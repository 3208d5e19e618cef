package domain

import "time"

// User represents a registered account. Courses holds the ids of the courses
// the user created, in creation order.
type User struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string
	Courses      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
