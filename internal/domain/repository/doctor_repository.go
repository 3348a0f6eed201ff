package repository

import (
	"context"
	"errors"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// DoctorFilter narrows List. Zero value lists everything.
type DoctorFilter struct {
	Department string
}

// DoctorPatch is a partial update. Nil fields keep their stored value,
// except Address which always replaces the stored address.
type DoctorPatch struct {
	Email      *string
	Password   *string // already hashed
	Username   *string
	FName      *string
	LName      *string
	Department *string
	ImageURL   *string
	Address    entity.Address
}

// DoctorRepository defines the persistence operations for doctors.
type DoctorRepository interface {
	Create(ctx context.Context, d *entity.Doctor) error
	GetByID(ctx context.Context, id string) (*entity.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*entity.Doctor, error)
	List(ctx context.Context, f DoctorFilter) ([]entity.Doctor, error)
	Update(ctx context.Context, id string, p DoctorPatch) (*entity.Doctor, error)
	Delete(ctx context.Context, id string) (*entity.Doctor, error)
}
