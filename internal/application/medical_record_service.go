package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	repo "github.com/clinic-suite/clinic-backend/internal/domain/repository"
)

type MedicalRecordService struct {
	Repo   repo.MedicalRecordRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewMedicalRecordService(repo repo.MedicalRecordRepository, logger *logrus.Logger) *MedicalRecordService {
	return &MedicalRecordService{Repo: repo, Logger: logger, Now: time.Now}
}

type RecordInput struct {
	Patient      string
	Complaint    string
	Diagnosis    string
	Prescription string
	Comments     []string
}

func (s *MedicalRecordService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *MedicalRecordService) CreateRecord(ctx context.Context, in RecordInput) (*entity.MedicalRecord, error) {
	if strings.TrimSpace(in.Patient) == "" {
		return nil, ErrPatientRequired
	}
	rec := &entity.MedicalRecord{
		Patient:      in.Patient,
		Complaint:    in.Complaint,
		Diagnosis:    in.Diagnosis,
		Prescription: in.Prescription,
		Comments:     make([]entity.Comment, 0, len(in.Comments)),
	}
	at := s.now()
	for _, c := range in.Comments {
		if strings.TrimSpace(c) == "" {
			continue
		}
		rec.Comments = append(rec.Comments, entity.Comment{Comment: c, Date: at})
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecord returns (nil, nil) for an unknown id.
func (s *MedicalRecordService) GetRecord(ctx context.Context, id string) (*entity.MedicalRecord, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *MedicalRecordService) ListRecordsByPatient(ctx context.Context, patient string) ([]entity.MedicalRecord, error) {
	if patient == "" {
		return nil, ErrNoPatient
	}
	return s.Repo.ListByPatient(ctx, patient)
}

// AddComment appends one timestamped comment; earlier comments are left untouched.
func (s *MedicalRecordService) AddComment(ctx context.Context, id, comment string) (*entity.MedicalRecord, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrNoComment
	}
	rec, err := s.Repo.AppendComment(ctx, id, entity.Comment{Comment: comment, Date: s.now()})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("record_id", id).Error("append comment failed")
		}
		return nil, err
	}
	return rec, nil
}
