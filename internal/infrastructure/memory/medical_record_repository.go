package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	"github.com/clinic-suite/clinic-backend/internal/domain/repository"
)

type MedicalRecordRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]entity.MedicalRecord

	failWith error
}

func NewMedicalRecordRepository() *MedicalRecordRepository {
	return &MedicalRecordRepository{byID: map[string]entity.MedicalRecord{}}
}

// Fail makes every later call return err; nil restores normal behaviour.
func (r *MedicalRecordRepository) Fail(err error) {
	r.mu.Lock()
	r.failWith = err
	r.mu.Unlock()
}

func cloneRecord(rec entity.MedicalRecord) *entity.MedicalRecord {
	rec.Comments = append([]entity.Comment(nil), rec.Comments...)
	if rec.Comments == nil {
		rec.Comments = []entity.Comment{}
	}
	return &rec
}

func (r *MedicalRecordRepository) Create(_ context.Context, rec *entity.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	now := time.Now().UTC()
	rec.ID = primitive.NewObjectID().Hex()
	rec.CreatedAt, rec.UpdatedAt = now, now
	if rec.Comments == nil {
		rec.Comments = []entity.Comment{}
	}
	r.byID[rec.ID] = *cloneRecord(*rec)
	r.order = append(r.order, rec.ID)
	return nil
}

func (r *MedicalRecordRepository) GetByID(_ context.Context, id string) (*entity.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	rec, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *MedicalRecordRepository) ListByPatient(_ context.Context, patient string) ([]entity.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]entity.MedicalRecord, 0)
	for _, id := range r.order {
		if rec := r.byID[id]; rec.Patient == patient {
			out = append(out, *cloneRecord(rec))
		}
	}
	return out, nil
}

func (r *MedicalRecordRepository) AppendComment(_ context.Context, id string, c entity.Comment) (*entity.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	rec, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.Comments = append(cloneRecord(rec).Comments, c)
	rec.UpdatedAt = time.Now().UTC()
	r.byID[id] = rec
	return cloneRecord(rec), nil
}

var _ repository.MedicalRecordRepository = (*MedicalRecordRepository)(nil)
