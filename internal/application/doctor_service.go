package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/config"
	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	repo "github.com/clinic-suite/clinic-backend/internal/domain/repository"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
	"github.com/clinic-suite/clinic-backend/pkg/mailer"
	mailtpl "github.com/clinic-suite/clinic-backend/pkg/mailer/templates"
)

// JobPublisher puts a JSON job on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type DoctorService struct {
	Repo    repo.DoctorRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
	Pub     JobPublisher
	Cfg     *config.Config
}

func NewDoctorService(repo repo.DoctorRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, pub JobPublisher, cfg *config.Config) *DoctorService {
	return &DoctorService{
		Repo:    repo,
		JWT:     jwt,
		Redis:   rdb,
		Logger:  logger,
		ES:      es,
		ESIndex: esIndex,
		Pub:     pub,
		Cfg:     cfg,
	}
}

// DoctorInput is the accepted doctor payload. Nil means "not supplied".
type DoctorInput struct {
	Email      *string
	Password   *string
	Username   *string
	FName      *string
	LName      *string
	Department *string
	ImageURL   *string
	Street     *string
	City       *string
	Parish     *string
}

// IsEmpty reports whether no field was supplied at all.
func (in DoctorInput) IsEmpty() bool {
	for _, f := range []*string{in.Email, in.Password, in.Username, in.FName, in.LName,
		in.Department, in.ImageURL, in.Street, in.City, in.Parish} {
		if f != nil {
			return false
		}
	}
	return true
}

func (in DoctorInput) address() entity.Address {
	return entity.Address{Street: in.Street, City: in.City, Parish: in.Parish}
}

// ImageUpload is a validated image that is written to storage only when
// Store is called, once the payload has passed validation.
type ImageUpload interface {
	Store(ctx context.Context) (string, error)
}

// UploadedFile is an image that already has a storage location.
type UploadedFile struct {
	Location string
}

func (f *UploadedFile) Store(context.Context) (string, error) { return f.Location, nil }

type LoginResult struct {
	Doctor    *entity.Doctor `json:"doctor"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"-"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *DoctorService) passwordCost() int {
	if s.Cfg != nil && s.Cfg.BcryptCost > 0 {
		return s.Cfg.BcryptCost
	}
	return helpers.PasswordCost
}

// Authenticate verifies the credentials and issues a one-hour session token.
func (s *DoctorService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	d, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(d.Password, password) {
		return nil, ErrBadCredentials
	}

	token, exp, err := s.JWT.GenerateSessionToken(helpers.SessionClaims{
		UserID:   d.ID,
		Username: d.Username,
		Email:    d.Email,
		Role:     string(entity.RoleDoctor),
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doctor_id", d.ID).Error("generate session token failed")
		}
		return nil, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"doctor_id":  d.ID,
			"email":      d.Email,
			"role":       string(entity.RoleDoctor),
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		}
		// The auth middleware requires this session, so a token without it is useless.
		if err := helpers.SaveSession(ctx, s.Redis, d.ID, fields, s.JWT.TTL); err != nil {
			helpers.LogError(s.Logger, "redis session write failed", err, logrus.Fields{"doctor_id": d.ID})
			return nil, fmt.Errorf("session not saved: %w", err)
		}
	}

	return &LoginResult{Doctor: d, Token: token, ExpiresAt: exp}, nil
}

// Logout drops the live session of a doctor.
func (s *DoctorService) Logout(ctx context.Context, doctorID string) error {
	if s.Redis == nil || doctorID == "" {
		return nil
	}
	return helpers.DropSession(ctx, s.Redis, doctorID)
}

// ListDoctors returns every doctor, or delegates to the department query when one is given.
func (s *DoctorService) ListDoctors(ctx context.Context, department string) ([]entity.Doctor, error) {
	if department != "" {
		return s.ListDoctorsByDepartment(ctx, department)
	}
	return s.Repo.List(ctx, repo.DoctorFilter{})
}

func (s *DoctorService) ListDoctorsByDepartment(ctx context.Context, department string) ([]entity.Doctor, error) {
	if department == "" {
		return nil, ErrNoDepartment
	}
	return s.Repo.List(ctx, repo.DoctorFilter{Department: department})
}

// GetDoctor returns (nil, nil) when no doctor has the id.
func (s *DoctorService) GetDoctor(ctx context.Context, id string) (*entity.Doctor, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

// CreateDoctor persists a new doctor. imageUrl only ever comes from an uploaded file,
// which is stored after the payload is validated. With no password the
// name-derived default is used. The stored password is a hash.
func (s *DoctorService) CreateDoctor(ctx context.Context, in DoctorInput, img ImageUpload) (*entity.Doctor, error) {
	if in.IsEmpty() {
		return nil, ErrNoCreateData
	}
	if strings.TrimSpace(deref(in.Email)) == "" {
		return nil, ErrEmailRequired
	}

	d := &entity.Doctor{
		Email:      deref(in.Email),
		Username:   deref(in.Username),
		FName:      deref(in.FName),
		LName:      deref(in.LName),
		Department: deref(in.Department),
		Address:    in.address(),
	}
	plain := deref(in.Password)
	defaulted := plain == ""
	if defaulted {
		if d.FName == "" || d.LName == "" {
			return nil, ErrNameRequired
		}
		plain = entity.DefaultPassword(d.FName, d.LName)
	}
	hash, err := helpers.HashPasswordWithCost(plain, s.passwordCost())
	if err != nil {
		return nil, err
	}
	d.Password = hash

	if img != nil {
		loc, err := img.Store(ctx)
		if err != nil {
			helpers.LogError(s.Logger, "image upload failed", err, logrus.Fields{"email": d.Email})
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		if loc != "" {
			d.ImageURL = &loc
		}
	}

	if err := s.Repo.Create(ctx, d); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	_ = s.indexDoctor(ctx, d)
	s.enqueueWelcome(ctx, d, defaulted)
	return d, nil
}

// UpdateDoctor merges the supplied fields. The address is always rebuilt from
// street/city/parish, so omitted parts are cleared. Returns (nil, nil) for an unknown id.
func (s *DoctorService) UpdateDoctor(ctx context.Context, id string, in DoctorInput) (*entity.Doctor, error) {
	if in.IsEmpty() {
		return nil, ErrNoUpdateData
	}

	patch := repo.DoctorPatch{
		Email:      in.Email,
		Username:   in.Username,
		FName:      in.FName,
		LName:      in.LName,
		Department: in.Department,
		ImageURL:   in.ImageURL,
		Address:    in.address(),
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := helpers.HashPasswordWithCost(*in.Password, s.passwordCost())
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}

	d, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, nil
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	_ = s.indexDoctor(ctx, d)
	return d, nil
}

// DeleteDoctor removes the doctor and returns its last known state.
func (s *DoctorService) DeleteDoctor(ctx context.Context, id string) (*entity.Doctor, error) {
	d, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNothingToDelete
		}
		return nil, err
	}

	if s.Redis != nil {
		if rErr := helpers.DropSession(ctx, s.Redis, d.ID); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("doctor_id", d.ID).Warn("redis session drop failed")
		}
	}
	s.unindexDoctor(ctx, d.ID)
	return d, nil
}

func (s *DoctorService) enqueueWelcome(ctx context.Context, d *entity.Doctor, defaultPassword bool) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	name := strings.TrimSpace(d.FName + " " + d.LName)
	data := mailtpl.NewDoctorWelcomeData(s.Cfg, name, d.Email,
		mailtpl.WithDepartment(d.Department),
		mailtpl.WithDefaultPassword(defaultPassword),
		mailtpl.WithTime(d.CreatedAt),
	)
	job := mailer.EmailJob{To: d.Email, Template: mailtpl.DoctorWelcome, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("doctor_id", d.ID).Warn("enqueue welcome email failed")
	}
}

// DoctorIndexMapping is the search index layout for doctors. Email and
// department are exact-match keywords; names are analysed text.
const DoctorIndexMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "email":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "fname":      {"type": "text"},
      "lname":      {"type": "text"},
      "department": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

func (s *DoctorService) indexDoctor(ctx context.Context, d *entity.Doctor) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         d.ID,
		"email":      d.Email,
		"fname":      d.FName,
		"lname":      d.LName,
		"department": d.Department,
		"created_at": d.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": d.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: d.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doctor_id", d.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("doctor_id", d.ID).Warn("es index response error")
	}
	return nil
}

func (s *DoctorService) unindexDoctor(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doctor_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchDoctors performs a multi_match search on email, names and department.
func (s *DoctorService) SearchDoctors(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "fname", "lname", "department"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
