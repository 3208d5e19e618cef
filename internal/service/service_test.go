package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"coursehub/internal/repository"
	"coursehub/internal/repository/sqlite"
	"coursehub/internal/token"
)

type testEnv struct {
	users   repository.UserRepository
	courses repository.CourseRepository
	tokens  *token.Service
	auth    AuthService
	course  CourseService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	courses := sqlite.NewCourseRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, courses.Init(ctx))

	tokens := token.NewService("test-secret", 15*time.Minute)

	return &testEnv{
		users:   users,
		courses: courses,
		tokens:  tokens,
		auth:    NewAuthService(users, tokens, bcrypt.MinCost),
		course:  NewCourseService(courses, users),
	}
}
