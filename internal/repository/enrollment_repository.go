package repository

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EnrollmentRepository struct {
	Col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{Col: db.Collection("enrollments")}
}

func (r *EnrollmentRepository) FindByStudentCourse(ctx context.Context, studentID, courseID string) (*models.CourseEnrollment, error) {
	var enrollment models.CourseEnrollment
	err := r.Col.FindOne(ctx, bson.M{"student_id": studentID, "course_id": courseID}).Decode(&enrollment)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByStudent(ctx context.Context, studentID string) ([]models.CourseEnrollment, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student_id": studentID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var enrollments []models.CourseEnrollment
	if err := cur.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.CourseEnrollment) error {
	_, err := r.Col.InsertOne(ctx, enrollment)
	return err
}

// UpdateAggregates rewrites the derived fields in one update so a reader
// never sees a recomputed percent paired with stale counts.
func (r *EnrollmentRepository) UpdateAggregates(ctx context.Context, enrollment *models.CourseEnrollment) error {
	filter := bson.M{"student_id": enrollment.StudentID, "course_id": enrollment.CourseID}
	update := bson.M{"$set": bson.M{
		"completed_lessons":  enrollment.CompletedLessons,
		"total_lessons":      enrollment.TotalLessons,
		"completion_percent": enrollment.CompletionPercent,
		"last_accessed_at":   enrollment.LastAccessedAt,
	}}
	_, err := r.Col.UpdateOne(ctx, filter, update)
	return err
}

func (r *EnrollmentRepository) SetActive(ctx context.Context, studentID, courseID string, active bool) error {
	filter := bson.M{"student_id": studentID, "course_id": courseID}
	res, err := r.Col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"course_id": courseID, "is_active": true})
}

// CourseStats is one row of the admin dashboard aggregation.
type CourseStats struct {
	CourseID          string  `bson:"_id" json:"course_id"`
	Students          int64   `bson:"students" json:"students"`
	AverageCompletion float64 `bson:"average_completion" json:"average_completion"`
}

func (r *EnrollmentRepository) StatsByCourse(ctx context.Context) ([]CourseStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":                "$course_id",
			"students":           bson.M{"$sum": 1},
			"average_completion": bson.M{"$avg": "$completion_percent"},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var stats []CourseStats
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
