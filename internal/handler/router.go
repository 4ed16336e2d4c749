package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth         *AuthHandler
	Directory    *DirectoryHandler
	Students     *StudentHandler
	Reference    *ReferenceHandler
	Observations *ObservationHandler
	Reports      *ReportHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the probes at the root and the API under prefix.
// Everything except register, login and logout sits behind the auth gate.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authGate gin.HandlerFunc, exposeMetrics bool) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if exposeMetrics {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", authGate, h.Auth.Me)

	protected := api.Group("")
	protected.Use(authGate)

	protected.GET("/schools", h.Directory.ListSchools)
	protected.POST("/schools", h.Directory.CreateSchool)
	protected.GET("/teachers", h.Directory.ListTeachers)
	protected.POST("/teachers", h.Directory.CreateTeacher)
	protected.GET("/classrooms", h.Directory.ListClassrooms)
	protected.POST("/classrooms", h.Directory.CreateClassroom)

	protected.GET("/idea-categories", h.Reference.IdeaCategories)
	protected.GET("/behavior-categories", h.Reference.BehaviorCategories)

	students := protected.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)

	observations := protected.Group("/observations")
	observations.GET("", h.Observations.List)
	observations.POST("", h.Observations.Create)
	observations.GET("/:id", h.Observations.Get)
	observations.PUT("/:id", h.Observations.Update)
	observations.DELETE("/:id", h.Observations.Delete)
	observations.POST("/:id/stop", h.Observations.Stop)
	observations.GET("/:id/entries", h.Observations.ListEntries)
	observations.POST("/:id/entries", h.Observations.AppendEntry)
	observations.GET("/:id/entries/export", h.Observations.ExportEntries)
	observations.GET("/:id/report", h.Reports.Get)
	observations.POST("/:id/report", h.Reports.Save)
	observations.GET("/:id/report/pdf", h.Reports.PDF)
}
