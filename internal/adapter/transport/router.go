package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

// RouterConfig collects the handlers and middleware dependencies of the API.
type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	Courses        *CourseHandler
	Curriculum     *CurriculumHandler
	Progress       *ProgressHandler
	Authenticator  core.Authenticator
	ProgressLimit  core.RateLimiter
	Logger         *logger.Logger
}

// NewRouter wires every route onto a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	useFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(RequestID(), RequestLogger(cfg.Logger), CORS(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	admin := RequireAdmin(cfg.Authenticator, cfg.Logger)
	api := router.Group("/api")

	// Courses
	api.GET("/courses", cfg.Courses.ListCourses)
	api.POST("/courses", admin, cfg.Courses.CreateCourse)
	api.GET("/courses/:id", cfg.Courses.GetCourse)
	api.PUT("/courses/:id", admin, cfg.Courses.UpdateCourse)
	api.PATCH("/courses/:id", admin, cfg.Courses.UpdateCourse)
	api.DELETE("/courses/:id", admin, cfg.Courses.DeleteCourse)
	api.POST("/courses/:id/enrollments", cfg.Courses.Enroll)
	api.GET("/courses/:id/enrollments", admin, cfg.Courses.CountEnrollments)

	// Categories
	api.GET("/categories", cfg.Courses.ListCategories)
	api.POST("/categories", admin, cfg.Courses.CreateCategory)

	// Modules
	modules := api.Group("/courses/:id/modules")
	modules.GET("", cfg.Curriculum.ListModules)
	modules.POST("", admin, cfg.Curriculum.CreateModule)
	modules.PUT("/:moduleId", admin, cfg.Curriculum.UpdateModule)
	modules.DELETE("/:moduleId", admin, cfg.Curriculum.DeleteModule)

	// Lessons
	lessons := modules.Group("/:moduleId/lessons")
	lessons.GET("", cfg.Curriculum.ListLessons)
	lessons.POST("", admin, cfg.Curriculum.CreateLesson)
	lessons.GET("/:lessonId", cfg.Curriculum.GetLesson)
	lessons.PUT("/:lessonId", admin, cfg.Curriculum.UpdateLesson)
	lessons.DELETE("/:lessonId", admin, cfg.Curriculum.DeleteLesson)

	// Resources and exercises
	resources := lessons.Group("/:lessonId/resources")
	resources.GET("", cfg.Curriculum.ListResources)
	resources.POST("", admin, cfg.Curriculum.CreateResource)
	resources.PUT("/:resourceId", admin, cfg.Curriculum.UpdateResource)
	resources.DELETE("/:resourceId", admin, cfg.Curriculum.DeleteResource)

	exercises := lessons.Group("/:lessonId/exercises")
	exercises.GET("", cfg.Curriculum.ListExercises)
	exercises.POST("", admin, cfg.Curriculum.CreateExercise)
	exercises.PUT("/:exerciseId", admin, cfg.Curriculum.UpdateExercise)
	exercises.DELETE("/:exerciseId", admin, cfg.Curriculum.DeleteExercise)

	// Progress
	recordProgress := []gin.HandlerFunc{cfg.Progress.RecordCompletion}
	if cfg.ProgressLimit != nil {
		recordProgress = append([]gin.HandlerFunc{RateLimit(cfg.ProgressLimit, "progress", cfg.Logger)}, recordProgress...)
	}
	api.GET("/progress", cfg.Progress.GetProgress)
	api.POST("/progress", recordProgress...)

	return router
}
