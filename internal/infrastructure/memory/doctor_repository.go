// Package memory holds map-backed repositories with the same semantics as the
// database implementations. They back the service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	"github.com/clinic-suite/clinic-backend/internal/domain/repository"
)

type DoctorRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]entity.Doctor

	failWith error
	// Writes counts successful mutating calls.
	Writes int
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{byID: map[string]entity.Doctor{}}
}

// Fail makes every later call return err; nil restores normal behaviour.
func (r *DoctorRepository) Fail(err error) {
	r.mu.Lock()
	r.failWith = err
	r.mu.Unlock()
}

func (r *DoctorRepository) emailTaken(email, exceptID string) bool {
	for id, d := range r.byID {
		if d.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *DoctorRepository) Create(_ context.Context, d *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.emailTaken(d.Email, "") {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt, d.UpdatedAt = now, now
	r.byID[d.ID] = *d
	r.order = append(r.order, d.ID)
	r.Writes++
	return nil
}

func (r *DoctorRepository) GetByID(_ context.Context, id string) (*entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *DoctorRepository) GetByEmail(_ context.Context, email string) (*entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, d := range r.byID {
		if d.Email == email {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *DoctorRepository) List(_ context.Context, f repository.DoctorFilter) ([]entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]entity.Doctor, 0, len(r.order))
	for _, id := range r.order {
		d := r.byID[id]
		if f.Department != "" && d.Department != f.Department {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (r *DoctorRepository) Update(_ context.Context, id string, p repository.DoctorPatch) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Email != nil && r.emailTaken(*p.Email, id) {
		return nil, repository.ErrDuplicate
	}
	setIf(&d.Email, p.Email)
	setIf(&d.Password, p.Password)
	setIf(&d.Username, p.Username)
	setIf(&d.FName, p.FName)
	setIf(&d.LName, p.LName)
	setIf(&d.Department, p.Department)
	if p.ImageURL != nil {
		v := *p.ImageURL
		d.ImageURL = &v
	}
	d.Address = p.Address
	d.UpdatedAt = time.Now().UTC()
	r.byID[id] = d
	r.Writes++
	return &d, nil
}

func (r *DoctorRepository) Delete(_ context.Context, id string) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.Writes++
	return &d, nil
}

var _ repository.DoctorRepository = (*DoctorRepository)(nil)
