package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
	"coursehub/internal/service"
	"coursehub/internal/token"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth       service.AuthService
	courses    service.CourseService
	tokens     *token.Service
	corsOrigin string
	logger     *logrus.Logger
}

func NewHandler(auth service.AuthService, courses service.CourseService, tokens *token.Service, corsOrigin string, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:       auth,
		courses:    courses,
		tokens:     tokens,
		corsOrigin: corsOrigin,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.corsOrigin))

	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	// the single course lookup is public, like the list
	router.GET("/courses", h.listCourses)
	router.GET("/courses/:id", h.getCourse)

	protected := router.Group("", requireAuth(h.tokens))
	protected.POST("/courses", h.createCourse)
	protected.GET("/users/mycourses", h.myCourses)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

type registerRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Schedule    string `json:"schedule"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type CourseResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Schedule    string `json:"schedule"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type CourseSummaryResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Instructor string `json:"instructor"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, err := h.auth.Register(c.Request.Context(), req.Username, req.FullName, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, tokenResponse{AccessToken: accessToken})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, tokenResponse{AccessToken: accessToken})
}

func (h *Handler) createCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.courses.Create(c.Request.Context(), c.GetString(ctxUsername), req.Title, req.Description, req.Schedule)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, summaryToResponse(*summary))
}

func (h *Handler) listCourses(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid limit")
		return
	}
	sort, err := querySort(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid sort order")
		return
	}

	search := c.Query("search")
	instructor := c.Query("instructor")

	var (
		courses []domain.Course
		findErr error
	)
	switch {
	case search != "" && instructor != "":
		courses, findErr = h.courses.FindByTitleAndInstructor(c.Request.Context(), search, instructor, page, limit, sort)
	case search != "":
		courses, findErr = h.courses.FindByTitle(c.Request.Context(), search, page, limit, sort)
	default:
		courses, findErr = h.courses.FindAll(c.Request.Context(), page, limit)
	}
	if findErr != nil {
		h.respondServiceError(c, findErr)
		return
	}

	resp := make([]CourseResponse, len(courses))
	for i := range courses {
		resp[i] = courseToResponse(courses[i])
	}
	respondData(c, http.StatusOK, resp)
}

func (h *Handler) getCourse(c *gin.Context) {
	course, err := h.courses.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, courseToResponse(*course))
}

func (h *Handler) myCourses(c *gin.Context) {
	summaries, err := h.courses.GetMyCourses(c.Request.Context(), c.GetString(ctxUsername))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]CourseSummaryResponse, len(summaries))
	for i := range summaries {
		resp[i] = summaryToResponse(summaries[i])
	}
	respondData(c, http.StatusOK, resp)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, strconv.ErrRange
	}
	return value, nil
}

func querySort(c *gin.Context) (repository.SortOrder, error) {
	raw := c.DefaultQuery("sort", "1")
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	switch repository.SortOrder(value) {
	case repository.SortAsc:
		return repository.SortAsc, nil
	case repository.SortDesc:
		return repository.SortDesc, nil
	}
	return 0, strconv.ErrSyntax
}

func courseToResponse(course domain.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Instructor:  course.Instructor,
		Schedule:    course.Schedule,
		CreatedAt:   course.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   course.UpdatedAt.Format(time.RFC3339),
	}
}

func summaryToResponse(summary domain.CourseSummary) CourseSummaryResponse {
	return CourseSummaryResponse{
		ID:         summary.ID,
		Title:      summary.Title,
		Instructor: summary.Instructor,
	}
}
