package router

import (
	"github.com/clinic-suite/clinic-backend/internal/application"
	"github.com/clinic-suite/clinic-backend/internal/container"
	"github.com/clinic-suite/clinic-backend/internal/domain/repository"
	mongoinfra "github.com/clinic-suite/clinic-backend/internal/infrastructure/mongodb"
	pginfra "github.com/clinic-suite/clinic-backend/internal/infrastructure/postgres"
	handlers "github.com/clinic-suite/clinic-backend/internal/interface/http"
	"github.com/clinic-suite/clinic-backend/internal/router/modules"
)

type DoctorModuleDeps struct {
	Repo    repository.DoctorRepository
	Service *application.DoctorService
	Auth    *handlers.AuthHandler
	Handler *handlers.DoctorHandler
}

type MedicalRecordModuleDeps struct {
	Repo    repository.MedicalRecordRepository
	Service *application.MedicalRecordService
	Handler *handlers.MedicalRecordHandler
}

func buildDoctorDeps() DoctorModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewDoctorRepository(container.GetPGPool())

	// Keep the interface nil when no publisher was built.
	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	service := application.NewDoctorService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESDoctorsIndex,
		pub,
		cfg,
	)

	return DoctorModuleDeps{
		Repo:    repo,
		Service: service,
		Auth:    handlers.NewAuthHandler(service, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure),
		Handler: handlers.NewDoctorHandler(service, container.GetLogger()),
	}
}

func buildMedicalRecordDeps() MedicalRecordModuleDeps {
	cfg := container.GetConfig()
	repo := mongoinfra.NewMedicalRecordRepository(container.GetMongo(), cfg.MongoRecordsCollection)
	service := application.NewMedicalRecordService(repo, container.GetLogger())
	return MedicalRecordModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handlers.NewMedicalRecordHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	doctorDeps := buildDoctorDeps()
	r.Add(modules.NewDoctorModule(doctorDeps.Auth, doctorDeps.Handler, container.GetJWT(), container.GetUploader(), container.GetLogger()))

	recordDeps := buildMedicalRecordDeps()
	r.Add(modules.NewMedicalRecordModule(recordDeps.Handler, container.GetJWT()))

	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
