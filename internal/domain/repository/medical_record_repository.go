package repository

import (
	"context"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
)

// MedicalRecordRepository stores medical records. AppendComment is the only
// mutation and must not touch existing comments.
type MedicalRecordRepository interface {
	Create(ctx context.Context, r *entity.MedicalRecord) error
	GetByID(ctx context.Context, id string) (*entity.MedicalRecord, error)
	ListByPatient(ctx context.Context, patient string) ([]entity.MedicalRecord, error)
	AppendComment(ctx context.Context, id string, c entity.Comment) (*entity.MedicalRecord, error)
}
