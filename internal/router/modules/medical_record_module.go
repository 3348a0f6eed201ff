package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinic-suite/clinic-backend/internal/container"
	handlers "github.com/clinic-suite/clinic-backend/internal/interface/http"
	"github.com/clinic-suite/clinic-backend/internal/interface/middleware"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
)

type MedicalRecordModule struct {
	Handler *handlers.MedicalRecordHandler
	JWT     *helpers.JWTManager
}

func NewMedicalRecordModule(h *handlers.MedicalRecordHandler, jwt *helpers.JWTManager) *MedicalRecordModule {
	return &MedicalRecordModule{Handler: h, JWT: jwt}
}

func (m *MedicalRecordModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/medical-records")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByDoctorID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.ListByPatient)
		auth.GET("/:id", m.Handler.Get)
		auth.POST("/:id/comments", m.Handler.AddComment)
	}
}
