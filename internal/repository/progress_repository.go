package repository

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("video_progress")}
}

func (r *ProgressRepository) FindByStudentVideo(ctx context.Context, studentID, videoID string) (*models.VideoProgress, error) {
	var progress models.VideoProgress
	err := r.Col.FindOne(ctx, bson.M{"student_id": studentID, "video_id": videoID}).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindByStudentCourse returns the student's progress records for a course
// keyed by video id, the shape the unlock policy consumes.
func (r *ProgressRepository) FindByStudentCourse(ctx context.Context, studentID, courseID string) (map[string]models.VideoProgress, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	result := make(map[string]models.VideoProgress)
	for cur.Next(ctx) {
		var p models.VideoProgress
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		result[p.VideoID] = p
	}
	return result, cur.Err()
}

// Upsert writes the whole record under its composite key.
func (r *ProgressRepository) Upsert(ctx context.Context, progress *models.VideoProgress) error {
	progress.ID = progress.Key()
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": progress.ID}, progress, options.Replace().SetUpsert(true))
	return err
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, studentID, courseID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"student_id": studentID,
		"course_id":  courseID,
		"completed":  true,
	})
}
