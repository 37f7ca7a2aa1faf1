package repository

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CourseRepository struct {
	Courses *mongo.Collection
	Videos  *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		Courses: db.Collection("courses"),
		Videos:  db.Collection("videos"),
	}
}

func (r *CourseRepository) FindAllCourses(ctx context.Context) ([]models.Course, error) {
	cur, err := r.Courses.Find(ctx, bson.M{"published": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var courses []models.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) FindCourseByID(ctx context.Context, id string) (*models.Course, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var course models.Course
	if err := r.Courses.FindOne(ctx, bson.M{"_id": objID}).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	res, err := r.Courses.InsertOne(ctx, course)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid.Hex()
	}
	return nil
}

func (r *CourseRepository) UpdateCourse(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	_, err = r.Courses.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}

// FindVideosByCourse returns the course's videos in unlock order.
func (r *CourseRepository) FindVideosByCourse(ctx context.Context, courseID string) ([]models.Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := r.Videos.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var videos []models.Video
	if err := cur.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *CourseRepository) FindVideoByID(ctx context.Context, id string) (*models.Video, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var video models.Video
	if err := r.Videos.FindOne(ctx, bson.M{"_id": objID}).Decode(&video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *CourseRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	res, err := r.Videos.InsertOne(ctx, video)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		video.ID = oid.Hex()
	}
	return nil
}

func (r *CourseRepository) UpdateVideo(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	_, err = r.Videos.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}

// DeleteVideosByCourse clears a course's video list ahead of a re-sync.
func (r *CourseRepository) DeleteVideosByCourse(ctx context.Context, courseID string) error {
	_, err := r.Videos.DeleteMany(ctx, bson.M{"course_id": courseID})
	return err
}

func (r *CourseRepository) CountVideos(ctx context.Context, courseID string) (int64, error) {
	return r.Videos.CountDocuments(ctx, bson.M{"course_id": courseID})
}
