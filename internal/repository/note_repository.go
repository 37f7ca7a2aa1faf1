package repository

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoteRepository struct {
	Col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{Col: db.Collection("notes")}
}

// Upsert replaces the one note a student may have per video. The document
// id is the composite key, so a second save overwrites instead of
// duplicating.
func (r *NoteRepository) Upsert(ctx context.Context, note *models.Note) error {
	note.ID = note.Key()
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": note.ID}, note, options.Replace().SetUpsert(true))
	return err
}

func (r *NoteRepository) FindByStudentVideo(ctx context.Context, studentID, videoID string) (*models.Note, error) {
	var note models.Note
	err := r.Col.FindOne(ctx, bson.M{"student_id": studentID, "video_id": videoID}).Decode(&note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Note, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepository) Delete(ctx context.Context, studentID, videoID string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"student_id": studentID, "video_id": videoID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
