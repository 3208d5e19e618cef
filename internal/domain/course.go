package domain

import "time"

// Course is a catalog entry. Instructor carries the full name of the user who
// created the course; the link back to the owner lives on the user side.
type Course struct {
	ID          string
	Title       string
	Description string
	Instructor  string
	Schedule    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CourseSummary is the trimmed projection returned from course creation and
// the my-courses listing.
type CourseSummary struct {
	ID         string
	Title      string
	Instructor string
}
