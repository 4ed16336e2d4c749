package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/internal/service"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/response"
)

type schoolService interface {
	List(ctx context.Context) ([]models.School, error)
	Create(ctx context.Context, req service.CreateSchoolRequest) (*models.School, error)
}

type teacherService interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	Create(ctx context.Context, req service.CreateTeacherRequest) (*models.Teacher, error)
}

type classroomService interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.ClassroomDetail, error)
	Create(ctx context.Context, req service.CreateClassroomRequest) (*models.Classroom, error)
}

// DirectoryHandler exposes the schools, teachers and classrooms an observation refers to.
type DirectoryHandler struct {
	schools    schoolService
	teachers   teacherService
	classrooms classroomService
}

// NewDirectoryHandler constructs DirectoryHandler.
func NewDirectoryHandler(schools schoolService, teachers teacherService, classrooms classroomService) *DirectoryHandler {
	return &DirectoryHandler{schools: schools, teachers: teachers, classrooms: classrooms}
}

// ListSchools godoc
// @Summary List schools
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /schools [get]
func (h *DirectoryHandler) ListSchools(c *gin.Context) {
	schools, err := h.schools.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schools)
}

// CreateSchool godoc
// @Summary Create school
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateSchoolRequest true "School payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schools [post]
func (h *DirectoryHandler) CreateSchool(c *gin.Context) {
	var req service.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid school payload"))
		return
	}
	school, err := h.schools.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param schoolId query string false "Filter by school"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *DirectoryHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.teachers.List(c.Request.Context(), models.TeacherFilter{SchoolID: c.Query("schoolId")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teachers)
}

// CreateTeacher godoc
// @Summary Create teacher
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers [post]
func (h *DirectoryHandler) CreateTeacher(c *gin.Context) {
	var req service.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid teacher payload"))
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// ListClassrooms godoc
// @Summary List classrooms
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param schoolId query string false "Filter by school"
// @Param teacherId query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *DirectoryHandler) ListClassrooms(c *gin.Context) {
	filter := models.ClassroomFilter{SchoolID: c.Query("schoolId"), TeacherID: c.Query("teacherId")}
	classrooms, err := h.classrooms.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classrooms)
}

// CreateClassroom godoc
// @Summary Create classroom
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classrooms [post]
func (h *DirectoryHandler) CreateClassroom(c *gin.Context) {
	var req service.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid classroom payload"))
		return
	}
	classroom, err := h.classrooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}
