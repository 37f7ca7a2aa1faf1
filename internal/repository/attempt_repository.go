package repository

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("quiz_attempts")}
}

func (r *AttemptRepository) FindByStudentVideo(ctx context.Context, studentID, videoID string) (*models.QuizAttemptState, error) {
	var attempt models.QuizAttemptState
	err := r.Col.FindOne(ctx, bson.M{"student_id": studentID, "video_id": videoID}).Decode(&attempt)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindByStudentCourse returns all gate records for a course keyed by video
// id, for the unlock policy's gate facts.
func (r *AttemptRepository) FindByStudentCourse(ctx context.Context, studentID, courseID string) (map[string]models.QuizAttemptState, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	result := make(map[string]models.QuizAttemptState)
	for cur.Next(ctx) {
		var a models.QuizAttemptState
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		result[a.VideoID] = a
	}
	return result, cur.Err()
}

func (r *AttemptRepository) Upsert(ctx context.Context, attempt *models.QuizAttemptState) error {
	filter := bson.M{"student_id": attempt.StudentID, "video_id": attempt.VideoID}
	_, err := r.Col.ReplaceOne(ctx, filter, attempt, options.Replace().SetUpsert(true))
	return err
}
