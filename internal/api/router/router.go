package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/config"
	"github.com/Chafic123/Attendance-Backend/internal/api/handler"
	"github.com/Chafic123/Attendance-Backend/internal/api/middleware"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/pkg/jwt"
	"github.com/Chafic123/Attendance-Backend/pkg/redis"
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup builds the gin engine. rdb may be nil, which disables token
// revocation checks and rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db Pinger, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	if err := handler.SetupValidator(); err != nil {
		return nil, err
	}

	var (
		blacklist middleware.Blacklist
		limiter   middleware.Limiter
	)
	if rdb != nil {
		blacklist, limiter = rdb, rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok"}
		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			status["status"], status["database"] = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = err.Error()
			} else {
				status["redis"] = "ok"
			}
		}
		c.JSON(code, status)
	})

	v1 := r.Group("/api/v1")
	{
		// unauthenticated
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			authorized.GET("/terms/active", h.Term.GetActiveTerm)

			registerAdmin(authorized.Group("/admin", middleware.RoleAuth(model.RoleAdmin)), h)
			registerInstructor(authorized.Group("/instructor", middleware.RoleAuth(model.RoleInstructor)), h)
			registerStudent(authorized.Group("/student", middleware.RoleAuth(model.RoleStudent)), h)
		}
	}

	return r, nil
}

func registerAdmin(g *gin.RouterGroup, h *handler.Handler) {
	g.PUT("/profile", h.Admin.UpdateProfile)
	g.GET("/departments", h.Admin.ListDepartments)

	terms := g.Group("/terms")
	{
		terms.GET("", h.Term.ListTerms)
		terms.GET("/:id", h.Term.GetTerm)
		terms.POST("", h.Term.CreateTerm)
		terms.PUT("/:id", h.Term.UpdateTerm)
		terms.DELETE("/:id", h.Term.DeleteTerm)
	}

	courses := g.Group("/courses")
	{
		courses.GET("", h.Course.ListCourses)
		courses.GET("/:id", h.Course.GetCourse)
		courses.POST("", h.Course.CreateCourse)
		courses.PUT("/:id", h.Course.UpdateCourse)
		courses.DELETE("/:id", h.Course.DeleteCourse)
		courses.GET("/:id/calendar", h.Course.Calendar)
		courses.GET("/:id/students", h.Course.Students)
		courses.GET("/:id/not-enrolled", h.Course.NotEnrolledStudents)
		courses.POST("/:id/students", h.Course.EnrollStudents)
		courses.POST("/:id/instructors", h.Course.EnrollInstructors)
		courses.DELETE("/:id/students/:studentId", h.Course.DropStudent)
		courses.GET("/:id/students/:studentId/attendance", h.Course.StudentAttendance)
		courses.GET("/:id/export", h.Course.ExportAttendance)
	}

	students := g.Group("/students")
	{
		students.GET("", h.Student.ListStudents)
		students.POST("/import", h.Student.ImportStudents)
		students.GET("/:id", h.Student.GetStudent)
		students.POST("", h.Student.CreateStudent)
		students.PUT("/:id", h.Student.UpdateStudent)
		students.DELETE("/:id", h.Student.DeleteStudent)
		students.GET("/:id/courses", h.Student.StudentCourses)
	}

	instructors := g.Group("/instructors")
	{
		instructors.GET("", h.Instructor.ListInstructors)
		instructors.GET("/:id", h.Instructor.GetInstructor)
		instructors.POST("", h.Instructor.CreateInstructor)
		instructors.PUT("/:id", h.Instructor.UpdateInstructor)
		instructors.DELETE("/:id", h.Instructor.DeleteInstructor)
	}

	reports := g.Group("/reports")
	{
		reports.GET("/courses/:id", h.Report.CourseAttendance)
		reports.GET("/courses/:id/students/:studentId", h.Report.StudentCourseAttendance)
		reports.GET("/students/:id", h.Report.StudentAttendance)
	}
}

func registerInstructor(g *gin.RouterGroup, h *handler.Handler) {
	g.PUT("/profile", h.Instructor.UpdateProfile)
	g.GET("/schedule", h.Report.MySchedule)
	g.GET("/schedule/pdf", h.Report.MySchedulePDF)
	g.GET("/schedule/ics", h.Report.MyScheduleICS)

	courses := g.Group("/courses")
	{
		courses.GET("", h.Instructor.MyCourses)
		courses.GET("/:id/calendar", h.Course.Calendar)
		courses.GET("/:id/students", h.Course.Students)
		courses.GET("/:id/students/:studentId/attendance", h.Course.StudentAttendance)
		courses.GET("/:id/export", h.Course.ExportAttendance)
	}

	g.GET("/reports/courses/:id", h.Report.CourseAttendance)
	g.GET("/reports/courses/:id/students/:studentId", h.Report.StudentCourseAttendance)

	g.POST("/notifications", h.Notification.Send)
	g.GET("/notifications", h.Notification.ListMine)
	g.PUT("/notifications/:id/read", h.Notification.MarkRead)

	g.GET("/attendance-requests", h.AttendanceRequest.ListMine)
	g.PUT("/attendance-requests/:id", h.AttendanceRequest.UpdateStatus)
}

func registerStudent(g *gin.RouterGroup, h *handler.Handler) {
	g.PUT("/profile", h.Student.UpdateProfile)
	g.GET("/schedule", h.Report.MySchedule)
	g.GET("/schedule/pdf", h.Report.MySchedulePDF)
	g.GET("/schedule/ics", h.Report.MyScheduleICS)

	courses := g.Group("/courses")
	{
		courses.GET("", h.Student.MyCourses)
		courses.GET("/:id/calendar", h.Student.MyCalendar)
		courses.GET("/:id/attendance", h.Student.MyAttendance)
	}

	g.GET("/reports/attendance", h.Report.MyAttendance)
	g.GET("/reports/courses/:id", h.Report.MyCourseAttendance)

	g.GET("/notifications", h.Notification.ListMine)
	g.PUT("/notifications/:id/read", h.Notification.MarkRead)

	g.POST("/attendance-requests", h.AttendanceRequest.Create)
	g.GET("/attendance-requests", h.AttendanceRequest.ListMine)
}
