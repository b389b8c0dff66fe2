package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"strayl-feedback/internal/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type submissionRepository struct {
	collection *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) SubmissionRepository {
	return &submissionRepository{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, submission)
	if err != nil {
		return err
	}

	// A missing generated id is not fatal; the submission proceeds without
	// one and the reward request simply omits it.
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		submission.ID = oid.Hex()
	}

	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any document.
		return nil, nil
	}

	var doc struct {
		ID        primitive.ObjectID `bson:"_id"`
		Answers   model.AnswerSet    `bson:"answers"`
		Language  string             `bson:"language,omitempty"`
		UserAgent string             `bson:"userAgent,omitempty"`
		CreatedAt time.Time          `bson:"createdAt"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &model.Submission{
		ID:        doc.ID.Hex(),
		Answers:   doc.Answers,
		Language:  doc.Language,
		UserAgent: doc.UserAgent,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *submissionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}
