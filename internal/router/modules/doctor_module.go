package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/internal/container"
	handlers "github.com/clinic-suite/clinic-backend/internal/interface/http"
	"github.com/clinic-suite/clinic-backend/internal/interface/middleware"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
)

// DoctorModule wires login, logout and doctor CRUD.
// Public: POST /api/doctors/login
// Protected: POST /api/logout, GET|POST /api/doctors, GET /api/doctors/department,
// GET /api/doctors/search, GET|PATCH|DELETE /api/doctors/:id
type DoctorModule struct {
	Auth     *handlers.AuthHandler
	Doctors  *handlers.DoctorHandler
	JWT      *helpers.JWTManager
	Uploader helpers.ObjectUploader
	Logger   *logrus.Logger
}

func NewDoctorModule(auth *handlers.AuthHandler, doctors *handlers.DoctorHandler, jwt *helpers.JWTManager, up helpers.ObjectUploader, logger *logrus.Logger) *DoctorModule {
	return &DoctorModule{Auth: auth, Doctors: doctors, JWT: jwt, Uploader: up, Logger: logger}
}

func (m *DoctorModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	rg.POST("/doctors/login", loginLimiter, m.Auth.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByDoctorID(), nil),
	)
	{
		auth.POST("/logout", m.Auth.Logout)

		auth.GET("/doctors", m.Doctors.List)
		auth.GET("/doctors/department", m.Doctors.ListByDepartment)
		auth.GET("/doctors/search", m.Doctors.Search)
		auth.GET("/doctors/:id", m.Doctors.Get)
		auth.POST("/doctors", middleware.UploadImage(m.Uploader, m.Logger), m.Doctors.Create)
		auth.PATCH("/doctors/:id", m.Doctors.Update)
		auth.DELETE("/doctors/:id", m.Doctors.Delete)
	}
}
