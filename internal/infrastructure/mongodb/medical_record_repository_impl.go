package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	"github.com/clinic-suite/clinic-backend/internal/domain/repository"
)

type commentDoc struct {
	Comment string    `bson:"comment"`
	Date    time.Time `bson:"date"`
}

func toCommentDocs(cs []entity.Comment) []commentDoc {
	out := make([]commentDoc, 0, len(cs))
	for _, c := range cs {
		out = append(out, commentDoc{Comment: c.Comment, Date: c.Date})
	}
	return out
}

type recordDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Patient      primitive.ObjectID `bson:"patient"`
	Complaint    string             `bson:"complaint,omitempty"`
	Diagnosis    string             `bson:"diagnosis,omitempty"`
	Prescription string             `bson:"prescription,omitempty"`
	Comments     []commentDoc       `bson:"comments"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d recordDoc) toEntity() *entity.MedicalRecord {
	comments := make([]entity.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, entity.Comment{Comment: c.Comment, Date: c.Date})
	}
	return &entity.MedicalRecord{
		ID:           d.ID.Hex(),
		Patient:      d.Patient.Hex(),
		Complaint:    d.Complaint,
		Diagnosis:    d.Diagnosis,
		Prescription: d.Prescription,
		Comments:     comments,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MedicalRecordRepository struct {
	coll *mongo.Collection
}

func NewMedicalRecordRepository(db *mongo.Database, collection string) *MedicalRecordRepository {
	return &MedicalRecordRepository{coll: db.Collection(collection)}
}

// EnsureIndexes creates the patient lookup index used by ListByPatient.
func (r *MedicalRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "patient", Value: 1}}})
	return err
}

func (r *MedicalRecordRepository) Create(ctx context.Context, rec *entity.MedicalRecord) error {
	patient, err := primitive.ObjectIDFromHex(rec.Patient)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc := recordDoc{
		Patient:      patient,
		Complaint:    rec.Complaint,
		Diagnosis:    rec.Diagnosis,
		Prescription: rec.Prescription,
		Comments:     toCommentDocs(rec.Comments),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	if rec.Comments == nil {
		rec.Comments = []entity.Comment{}
	}
	rec.CreatedAt, rec.UpdatedAt = now, now
	return nil
}

func (r *MedicalRecordRepository) GetByID(ctx context.Context, id string) (*entity.MedicalRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc recordDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *MedicalRecordRepository) ListByPatient(ctx context.Context, patient string) ([]entity.MedicalRecord, error) {
	out := make([]entity.MedicalRecord, 0)
	oid, err := primitive.ObjectIDFromHex(patient)
	if err != nil {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"patient": oid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, *doc.toEntity())
	}
	return out, cur.Err()
}

func (r *MedicalRecordRepository) AppendComment(ctx context.Context, id string, c entity.Comment) (*entity.MedicalRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	update := bson.M{
		"$push": bson.M{"comments": commentDoc{Comment: c.Comment, Date: c.Date}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	var doc recordDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

var _ repository.MedicalRecordRepository = (*MedicalRecordRepository)(nil)
