package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"coursehub/internal/repository/sqlite"
	"coursehub/internal/service"
	"coursehub/internal/token"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	courses := sqlite.NewCourseRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, courses.Init(ctx))

	tokens := token.NewService("test-secret", 15*time.Minute)
	auth := service.NewAuthService(users, tokens, bcrypt.MinCost)
	courseSvc := service.NewCourseService(courses, users)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	NewHandler(auth, courseSvc, tokens, "http://localhost:3000", logger).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Timestamp  string          `json:"timestamp"`
	Path       string          `json:"path"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func registerAndGetToken(t *testing.T, router *gin.Engine, username, fullName string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"fullName": fullName,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.AccessToken)
	return payload.AccessToken
}

func TestRegisterEndpoint(t *testing.T) {
	router := setupRouter(t)

	accessToken := registerAndGetToken(t, router, "johndoe", "John Doe")
	assert.NotEmpty(t, accessToken)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "johndoe",
		"fullName": "Someone Else",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username is already taken", decodeEnvelope(t, rec).Message)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "jo",
		"fullName": "John Doe",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "/auth/register", env.Path)
	assert.NotEmpty(t, env.Timestamp)
}

func TestLoginEndpoint(t *testing.T) {
	router := setupRouter(t)
	registerAndGetToken(t, router, "johndoe", "John Doe")

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": "johndoe",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	wrong := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": "johndoe",
		"password": "wrongpassword",
	})
	unknown := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": "nosuchuser",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, decodeEnvelope(t, wrong).Message, decodeEnvelope(t, unknown).Message)
}

func TestCreateCourse_RequiresAuth(t *testing.T) {
	router := setupRouter(t)

	body := gin.H{"title": "Go Basics", "description": "desc", "schedule": "Mon 9:00"}

	noToken := doJSON(t, router, http.MethodPost, "/courses", "", body)
	assert.Equal(t, http.StatusUnauthorized, noToken.Code)

	badToken := doJSON(t, router, http.MethodPost, "/courses", "not-a-token", body)
	assert.Equal(t, http.StatusUnauthorized, badToken.Code)

	expired, err := token.NewService("test-secret", -time.Minute).Issue("johndoe", "user-1")
	require.NoError(t, err)
	expiredRec := doJSON(t, router, http.MethodPost, "/courses", expired, body)
	assert.Equal(t, http.StatusUnauthorized, expiredRec.Code)
}

func TestCreateCourse(t *testing.T) {
	router := setupRouter(t)
	accessToken := registerAndGetToken(t, router, "johndoe", "John Doe")

	rec := doJSON(t, router, http.MethodPost, "/courses", accessToken, gin.H{
		"title":       "Go Basics",
		"description": "An intro course",
		"schedule":    "Mon 9:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created CourseSummaryResponse
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Go Basics", created.Title)
	assert.Equal(t, "John Doe", created.Instructor)

	// the created course is publicly retrievable
	lookup := doJSON(t, router, http.MethodGet, "/courses/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, lookup.Code)

	var course CourseResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, lookup).Data, &course))
	assert.Equal(t, "An intro course", course.Description)
	assert.Equal(t, "Mon 9:00", course.Schedule)
}

func TestGetCourse_NotFound(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/courses/nonexistent-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCourses(t *testing.T) {
	router := setupRouter(t)
	accessToken := registerAndGetToken(t, router, "johndoe", "John Doe")

	for _, title := range []string{"JavaScript Fundamentals", "Advanced TypeScript", "Go Concurrency"} {
		rec := doJSON(t, router, http.MethodPost, "/courses", accessToken, gin.H{
			"title":       title,
			"description": "desc",
			"schedule":    "Mon 9:00",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	all := doJSON(t, router, http.MethodGet, "/courses", "", nil)
	require.Equal(t, http.StatusOK, all.Code)

	var courses []CourseResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, all).Data, &courses))
	assert.Len(t, courses, 3)

	searched := doJSON(t, router, http.MethodGet, "/courses?search=script&sort=-1", "", nil)
	require.Equal(t, http.StatusOK, searched.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, searched).Data, &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, "JavaScript Fundamentals", courses[0].Title)

	conjunctive := doJSON(t, router, http.MethodGet, "/courses?search=script&instructor=john+doe", "", nil)
	require.Equal(t, http.StatusOK, conjunctive.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, conjunctive).Data, &courses))
	assert.Len(t, courses, 2)

	badSort := doJSON(t, router, http.MethodGet, "/courses?sort=5", "", nil)
	assert.Equal(t, http.StatusBadRequest, badSort.Code)

	badPage := doJSON(t, router, http.MethodGet, "/courses?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, badPage.Code)
}

func TestMyCourses(t *testing.T) {
	router := setupRouter(t)
	accessToken := registerAndGetToken(t, router, "johndoe", "John Doe")

	unauthenticated := doJSON(t, router, http.MethodGet, "/users/mycourses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, unauthenticated.Code)

	empty := doJSON(t, router, http.MethodGet, "/users/mycourses", accessToken, nil)
	require.Equal(t, http.StatusOK, empty.Code)

	var summaries []CourseSummaryResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, empty).Data, &summaries))
	assert.Empty(t, summaries)

	rec := doJSON(t, router, http.MethodPost, "/courses", accessToken, gin.H{
		"title":       "Go Basics",
		"description": "desc",
		"schedule":    "Mon 9:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	mine := doJSON(t, router, http.MethodGet, "/users/mycourses", accessToken, nil)
	require.Equal(t, http.StatusOK, mine.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, mine).Data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Go Basics", summaries[0].Title)
	assert.Equal(t, "John Doe", summaries[0].Instructor)
}

func TestCORSPreflight(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/courses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
