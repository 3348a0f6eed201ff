package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinic-suite/clinic-backend/config"
	"github.com/clinic-suite/clinic-backend/internal/infrastructure/memory"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
	"github.com/clinic-suite/clinic-backend/pkg/mailer"
)

type capturePublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return nil
}

func str(s string) *string { return &s }

func newTestDoctorService(t *testing.T) (*DoctorService, *memory.DoctorRepository, *capturePublisher) {
	t.Helper()
	repo := memory.NewDoctorRepository()
	pub := &capturePublisher{}
	cfg := &config.Config{BcryptCost: bcrypt.MinCost, MailSendEnabled: true, ClinicName: "Hope Clinic"}
	svc := NewDoctorService(repo, helpers.NewJWTManager("test-secret", time.Hour), nil, nil, nil, "", pub, cfg)
	return svc, repo, pub
}

func mustCreate(t *testing.T, svc *DoctorService, in DoctorInput) string {
	t.Helper()
	d, err := svc.CreateDoctor(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	return d.ID
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()
	mustCreate(t, svc, DoctorInput{Email: str("jane@clinic.test"), Password: str("s3cret!"), Username: str("jdoe"), FName: str("Jane"), LName: str("Doe")})

	t.Run("valid credentials", func(t *testing.T) {
		res, err := svc.Authenticate(ctx, "jane@clinic.test", "s3cret!")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if res.Doctor == nil || res.Doctor.Email != "jane@clinic.test" || res.Token == "" {
			t.Fatalf("result = %+v", res)
		}
		claims, err := svc.JWT.ParseSessionToken(res.Token)
		if err != nil {
			t.Fatalf("ParseSessionToken: %v", err)
		}
		if claims.UserID != res.Doctor.ID || claims.Role != "doctor" || claims.Username != "jdoe" || claims.Email != "jane@clinic.test" {
			t.Fatalf("claims = %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "jane@clinic.test", "guess")
		if !errors.Is(err, ErrBadCredentials) || KindOf(err) != KindUnauthorized {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@clinic.test", "s3cret!")
		if !errors.Is(err, ErrDoctorNotFound) || KindOf(err) != KindNotFound {
			t.Fatalf("err = %v", err)
		}
		if err.Error() != "User not Found" {
			t.Fatalf("message = %q", err.Error())
		}
	})
}

func TestAuthenticateStoreFailure(t *testing.T) {
	svc, repo, _ := newTestDoctorService(t)
	repo.Fail(errors.New("connection refused"))

	_, err := svc.Authenticate(context.Background(), "jane@clinic.test", "x")
	if KindOf(err) != KindStoreFailure || err.Error() != "connection refused" {
		t.Fatalf("err = %v (kind %v)", err, KindOf(err))
	}
}

func TestCreateDoctorDefaultPassword(t *testing.T) {
	svc, repo, pub := newTestDoctorService(t)

	d, err := svc.CreateDoctor(context.Background(), DoctorInput{
		Email: str("jane@clinic.test"), FName: str("Jane"), LName: str("Doe"), Department: str("Cardiology"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected generated id")
	}
	stored, _ := repo.GetByID(context.Background(), d.ID)
	if stored.Password == "J.DOE" || !helpers.CompareHashAndPassword(stored.Password, "J.DOE") {
		t.Fatalf("stored password is not a hash of the default: %q", stored.Password)
	}

	b, _ := json.Marshal(d)
	if strings.Contains(string(b), "J.DOE") || strings.Contains(string(b), "password") {
		t.Fatalf("returned record exposes password: %s", b)
	}

	if len(pub.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(pub.jobs))
	}
	job := pub.jobs[0].(mailer.EmailJob)
	if job.To != "jane@clinic.test" || job.Data["DefaultPassword"] != true {
		t.Fatalf("job = %+v", job)
	}
	jb, _ := json.Marshal(job)
	if strings.Contains(string(jb), "J.DOE") || strings.Contains(string(jb), stored.Password) {
		t.Fatalf("job leaks credentials: %s", jb)
	}
}

func TestCreateDoctorUsesCostTenByDefault(t *testing.T) {
	repo := memory.NewDoctorRepository()
	svc := NewDoctorService(repo, helpers.NewJWTManager("k", 0), nil, nil, nil, "", nil, nil)
	d, err := svc.CreateDoctor(context.Background(), DoctorInput{Email: str("a@clinic.test"), Password: str("pw")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(context.Background(), d.ID)
	if cost, _ := bcrypt.Cost([]byte(stored.Password)); cost != 10 {
		t.Fatalf("cost = %d, want 10", cost)
	}
}

func TestCreateDoctorRejects(t *testing.T) {
	cases := []struct {
		name string
		in   DoctorInput
		want error
	}{
		{"empty payload", DoctorInput{}, ErrNoCreateData},
		{"no email", DoctorInput{FName: str("Jane")}, ErrEmailRequired},
		{"no password and no names", DoctorInput{Email: str("x@clinic.test"), FName: str("Jane")}, ErrNameRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, pub := newTestDoctorService(t)
			_, err := svc.CreateDoctor(context.Background(), tc.in, nil)
			if !errors.Is(err, tc.want) || KindOf(err) != KindInvalidInput {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if repo.Writes != 0 || len(pub.jobs) != 0 {
				t.Fatalf("side effects after rejection: writes=%d jobs=%d", repo.Writes, len(pub.jobs))
			}
		})
	}
}

func TestCreateDoctorDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	in := DoctorInput{Email: str("dup@clinic.test"), Password: str("pw")}
	mustCreate(t, svc, in)
	_, err := svc.CreateDoctor(context.Background(), in, nil)
	if !errors.Is(err, ErrDuplicateEmail) || KindOf(err) != KindInvalidInput {
		t.Fatalf("err = %v", err)
	}
}

func TestAuthenticateFailsWhenSessionCannotBeSaved(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()
	mustCreate(t, svc, DoctorInput{Email: str("jane@clinic.test"), Password: str("pw")})

	svc.Redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = svc.Redis.Close() })

	res, err := svc.Authenticate(ctx, "jane@clinic.test", "pw")
	if err == nil || res != nil {
		t.Fatalf("res = %+v err = %v", res, err)
	}
	if KindOf(err) != KindStoreFailure {
		t.Fatalf("kind = %v", KindOf(err))
	}
}

type stubImage struct {
	loc    string
	err    error
	stores int
}

func (i *stubImage) Store(context.Context) (string, error) {
	i.stores++
	return i.loc, i.err
}

func TestCreateDoctorStoresImageAfterValidation(t *testing.T) {
	svc, repo, _ := newTestDoctorService(t)
	ctx := context.Background()

	img := &stubImage{loc: "https://storage.googleapis.com/b/doctors/2.png"}
	for _, in := range []DoctorInput{{}, {Email: str("a@clinic.test")}, {FName: str("Jane")}} {
		if _, err := svc.CreateDoctor(ctx, in, img); KindOf(err) != KindInvalidInput {
			t.Fatalf("input %+v: err = %v", in, err)
		}
	}
	if img.stores != 0 {
		t.Fatalf("image stored for rejected payloads: %d", img.stores)
	}

	broken := &stubImage{err: errors.New("bucket gone")}
	if _, err := svc.CreateDoctor(ctx, DoctorInput{Email: str("a@clinic.test"), Password: str("pw")}, broken); !errors.Is(err, ErrImageUpload) {
		t.Fatalf("upload failure err = %v", err)
	}
	if repo.Writes != 0 {
		t.Fatalf("doctor persisted without its image: writes=%d", repo.Writes)
	}

	d, err := svc.CreateDoctor(ctx, DoctorInput{Email: str("a@clinic.test"), Password: str("pw")}, img)
	if err != nil || img.stores != 1 || d.ImageURL == nil || *d.ImageURL != img.loc {
		t.Fatalf("d = %+v err = %v stores = %d", d, err, img.stores)
	}
}

func TestCreateDoctorImageFromUploadOnly(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()

	d, err := svc.CreateDoctor(ctx, DoctorInput{Email: str("a@clinic.test"), Password: str("pw"), ImageURL: str("http://evil.test/x.png")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.ImageURL != nil {
		t.Fatalf("imageUrl taken from body: %v", *d.ImageURL)
	}

	d, err = svc.CreateDoctor(ctx, DoctorInput{Email: str("b@clinic.test"), Password: str("pw")}, &UploadedFile{Location: "https://storage.googleapis.com/b/doctors/1.png"})
	if err != nil {
		t.Fatal(err)
	}
	if d.ImageURL == nil || *d.ImageURL != "https://storage.googleapis.com/b/doctors/1.png" {
		t.Fatalf("imageUrl = %v", d.ImageURL)
	}
}

func TestUpdateDoctorReplacesAddressWholesale(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, DoctorInput{
		Email: str("a@clinic.test"), Password: str("pw"),
		Street: str("1 Hope Rd"), City: str("Kingston"), Parish: str("St. Andrew"),
	})

	d, err := svc.UpdateDoctor(ctx, id, DoctorInput{Street: str("2 King St"), City: str("Kingston")})
	if err != nil {
		t.Fatalf("UpdateDoctor: %v", err)
	}
	if d.Address.Parish != nil {
		t.Fatalf("parish survived the update: %q", *d.Address.Parish)
	}
	if d.Address.Street == nil || *d.Address.Street != "2 King St" {
		t.Fatalf("street = %v", d.Address.Street)
	}
	if d.Email != "a@clinic.test" {
		t.Fatalf("unsupplied field changed: %q", d.Email)
	}
}

func TestUpdateDoctorHashesPassword(t *testing.T) {
	svc, repo, _ := newTestDoctorService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, DoctorInput{Email: str("a@clinic.test"), Password: str("old")})

	if _, err := svc.UpdateDoctor(ctx, id, DoctorInput{Password: str("new-pass")}); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(ctx, id)
	if stored.Password == "new-pass" || !helpers.CompareHashAndPassword(stored.Password, "new-pass") {
		t.Fatalf("password not stored as hash: %q", stored.Password)
	}
	if _, err := svc.Authenticate(ctx, "a@clinic.test", "new-pass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateDoctorEdgeCases(t *testing.T) {
	svc, repo, _ := newTestDoctorService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, DoctorInput{Email: str("a@clinic.test"), Password: str("pw")})
	mustCreate(t, svc, DoctorInput{Email: str("b@clinic.test"), Password: str("pw")})
	writes := repo.Writes

	if _, err := svc.UpdateDoctor(ctx, id, DoctorInput{}); !errors.Is(err, ErrNoUpdateData) {
		t.Fatalf("empty update err = %v", err)
	}
	if repo.Writes != writes {
		t.Fatal("empty update wrote to the store")
	}

	d, err := svc.UpdateDoctor(ctx, "missing", DoctorInput{FName: str("X")})
	if err != nil || d != nil {
		t.Fatalf("unknown id: d=%v err=%v", d, err)
	}

	if _, err := svc.UpdateDoctor(ctx, id, DoctorInput{Email: str("b@clinic.test")}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate email err = %v", err)
	}
}

func TestDeleteDoctor(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, DoctorInput{Email: str("a@clinic.test"), Password: str("pw"), FName: str("Ann")})

	d, err := svc.DeleteDoctor(ctx, id)
	if err != nil || d == nil || d.FName != "Ann" {
		t.Fatalf("delete: d=%v err=%v", d, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.DeleteDoctor(ctx, id)
		if !errors.Is(err, ErrNothingToDelete) || KindOf(err) != KindInvalidInput {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	if got, _ := svc.GetDoctor(ctx, id); got != nil {
		t.Fatalf("doctor still present: %+v", got)
	}
}

func TestListDoctorsByDepartment(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()
	cardio := mustCreate(t, svc, DoctorInput{Email: str("a@clinic.test"), Password: str("pw"), Department: str("Cardiology")})
	mustCreate(t, svc, DoctorInput{Email: str("b@clinic.test"), Password: str("pw"), Department: str("Oncology")})

	if _, err := svc.ListDoctorsByDepartment(ctx, ""); !errors.Is(err, ErrNoDepartment) || KindOf(err) != KindNotFound {
		t.Fatalf("missing department err = %v", err)
	}

	got, err := svc.ListDoctorsByDepartment(ctx, "Cardiology")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != cardio {
		t.Fatalf("Cardiology = %+v", got)
	}

	other, err := svc.ListDoctorsByDepartment(ctx, "Oncology")
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range other {
		if d.ID == cardio {
			t.Fatal("cardiology doctor listed under oncology")
		}
	}

	none, err := svc.ListDoctorsByDepartment(ctx, "Dermatology")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("empty department: %v, %v", none, err)
	}
}

func TestListDoctors(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	ctx := context.Background()
	mustCreate(t, svc, DoctorInput{Email: str("a@clinic.test"), Password: str("pw"), Department: str("Cardiology")})
	mustCreate(t, svc, DoctorInput{Email: str("b@clinic.test"), Password: str("pw"), Department: str("Oncology")})

	all, err := svc.ListDoctors(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %v, err = %v", all, err)
	}
	if all[0].Email != "a@clinic.test" {
		t.Fatalf("insertion order not kept: %v", all)
	}
	filtered, err := svc.ListDoctors(ctx, "Oncology")
	if err != nil || len(filtered) != 1 || filtered[0].Email != "b@clinic.test" {
		t.Fatalf("filtered = %v, err = %v", filtered, err)
	}
}

func TestGetDoctorUnknownIsNotAnError(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	d, err := svc.GetDoctor(context.Background(), "nope")
	if d != nil || err != nil {
		t.Fatalf("d=%v err=%v", d, err)
	}
}

func TestSearchWithoutElasticsearch(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	out, err := svc.SearchDoctors(context.Background(), "jane", 5)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("out=%v err=%v", out, err)
	}
}

func TestLogoutWithoutRedis(t *testing.T) {
	svc, _, _ := newTestDoctorService(t)
	if err := svc.Logout(context.Background(), "d1"); err != nil {
		t.Fatal(err)
	}
}

func TestKindString(t *testing.T) {
	if KindInvalidInput.String() != "InvalidInput" || KindStoreFailure.String() != "StoreFailure" {
		t.Fatal("unexpected kind names")
	}
}
