package mongodb

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
)

func TestRecordDocEncoding(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	doc := recordDoc{
		ID:       primitive.NewObjectID(),
		Patient:  primitive.NewObjectID(),
		Comments: toCommentDocs([]entity.Comment{{Comment: "first visit", Date: at}}),
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	comments, ok := bson.Raw(raw).Lookup("comments").ArrayOK()
	if !ok {
		t.Fatal("comments is not an array")
	}
	first := comments.Index(0).Value().Document()
	if first.Lookup("comment").StringValue() != "first visit" || !first.Lookup("date").Time().Equal(at) {
		t.Fatalf("comment = %v", first)
	}

	var back recordDoc
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	rec := back.toEntity()
	if rec.ID != doc.ID.Hex() || rec.Patient != doc.Patient.Hex() {
		t.Fatalf("ids = %s %s", rec.ID, rec.Patient)
	}
	if len(rec.Comments) != 1 || rec.Comments[0].Comment != "first visit" || !rec.Comments[0].Date.Equal(at) {
		t.Fatalf("comments = %+v", rec.Comments)
	}

	if got := (recordDoc{}).toEntity().Comments; got == nil || len(got) != 0 {
		t.Fatalf("empty comments = %v", got)
	}
}
