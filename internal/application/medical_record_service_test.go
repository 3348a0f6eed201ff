package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinic-suite/clinic-backend/internal/infrastructure/memory"
)

func newTestRecordService() (*MedicalRecordService, *memory.MedicalRecordRepository) {
	repo := memory.NewMedicalRecordRepository()
	svc := NewMedicalRecordService(repo, nil)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func TestCreateRecord(t *testing.T) {
	svc, _ := newTestRecordService()
	patient := primitive.NewObjectID().Hex()

	rec, err := svc.CreateRecord(context.Background(), RecordInput{
		Patient:   patient,
		Complaint: "headache",
		Comments:  []string{"first visit", "  "},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID == "" || rec.Patient != patient {
		t.Fatalf("rec = %+v", rec)
	}
	if len(rec.Comments) != 1 || rec.Comments[0].Comment != "first visit" || rec.Comments[0].Date.IsZero() {
		t.Fatalf("comments = %+v", rec.Comments)
	}

	if _, err := svc.CreateRecord(context.Background(), RecordInput{}); !errors.Is(err, ErrPatientRequired) {
		t.Fatalf("missing patient err = %v", err)
	}
}

func TestAddCommentAppendsOnly(t *testing.T) {
	svc, _ := newTestRecordService()
	ctx := context.Background()
	rec, err := svc.CreateRecord(ctx, RecordInput{Patient: primitive.NewObjectID().Hex(), Comments: []string{"one"}})
	if err != nil {
		t.Fatal(err)
	}
	first := rec.Comments[0]

	updated, err := svc.AddComment(ctx, rec.ID, "two")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(updated.Comments) != 2 {
		t.Fatalf("comments = %+v", updated.Comments)
	}
	if updated.Comments[0] != first {
		t.Fatalf("existing comment changed: %+v vs %+v", updated.Comments[0], first)
	}
	if !updated.Comments[1].Date.After(first.Date) || updated.Comments[1].Comment != "two" {
		t.Fatalf("appended comment = %+v", updated.Comments[1])
	}

	if _, err := svc.AddComment(ctx, rec.ID, " "); !errors.Is(err, ErrNoComment) {
		t.Fatalf("blank comment err = %v", err)
	}
	if _, err := svc.AddComment(ctx, primitive.NewObjectID().Hex(), "x"); !errors.Is(err, ErrRecordNotFound) || KindOf(err) != KindNotFound {
		t.Fatalf("unknown record err = %v", err)
	}
}

func TestListRecordsByPatient(t *testing.T) {
	svc, _ := newTestRecordService()
	ctx := context.Background()
	p1, p2 := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()
	for _, p := range []string{p1, p1, p2} {
		if _, err := svc.CreateRecord(ctx, RecordInput{Patient: p}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.ListRecordsByPatient(ctx, ""); !errors.Is(err, ErrNoPatient) {
		t.Fatalf("missing patient err = %v", err)
	}
	got, err := svc.ListRecordsByPatient(ctx, p1)
	if err != nil || len(got) != 2 {
		t.Fatalf("p1 records = %v, err = %v", got, err)
	}
	none, err := svc.ListRecordsByPatient(ctx, primitive.NewObjectID().Hex())
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("unknown patient = %v, err = %v", none, err)
	}
}

func TestGetRecord(t *testing.T) {
	svc, repo := newTestRecordService()
	ctx := context.Background()

	rec, err := svc.GetRecord(ctx, "missing")
	if rec != nil || err != nil {
		t.Fatalf("missing: rec=%v err=%v", rec, err)
	}

	repo.Fail(errors.New("server selection timeout"))
	if _, err := svc.GetRecord(ctx, "x"); KindOf(err) != KindStoreFailure {
		t.Fatalf("store failure err = %v", err)
	}
}
