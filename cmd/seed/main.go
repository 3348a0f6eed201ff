package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/clinic-suite/clinic-backend/config"
	"github.com/clinic-suite/clinic-backend/internal/application"
	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	pginfra "github.com/clinic-suite/clinic-backend/internal/infrastructure/postgres"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Seeds a first doctor so the protected API can be reached. With no
// SEED_PASSWORD the name-derived default password is used.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.AppName+"-seed", 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	email := envOr("SEED_EMAIL", "admin.doctor@clinic.local")
	fname := envOr("SEED_FNAME", "Admin")
	lname := envOr("SEED_LNAME", "Doctor")
	department := envOr("SEED_DEPARTMENT", "General Practice")

	in := application.DoctorInput{Email: &email, FName: &fname, LName: &lname, Department: &department}
	password := os.Getenv("SEED_PASSWORD")
	if password != "" {
		in.Password = &password
	} else {
		password = entity.DefaultPassword(fname, lname)
	}

	svc := application.NewDoctorService(pginfra.NewDoctorRepository(pool), helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL), nil, nil, nil, "", nil, cfg)
	d, err := svc.CreateDoctor(ctx, in, nil)
	if errors.Is(err, application.ErrDuplicateEmail) {
		fmt.Printf("doctor %s already exists; nothing to do\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed doctor: %v", err)
	}
	fmt.Printf("seeded doctor: id=%s email=%s department=%s password=%s\n", d.ID, d.Email, d.Department, password)
}
