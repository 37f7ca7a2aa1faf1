package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/repository"
	"learning-service/internal/unlock"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	cacheKeyCourses = "catalog:courses"
	cacheKeyCourse  = "catalog:course:"
)

// CourseDetail is a course with its ordered video list, answer keys
// stripped from embedded checkpoints.
type CourseDetail struct {
	Course models.Course  `json:"course"`
	Videos []models.Video `json:"videos"`
}

// VideoSyncInput and CourseSyncInput are the playlist-sync ingestion
// payload: the closed shape admin imports are validated against.
type VideoSyncInput struct {
	Title           string                 `json:"title" binding:"required"`
	URL             string                 `json:"url" binding:"required"`
	DurationSeconds int                    `json:"duration_seconds"`
	Position        int                    `json:"position"`
	Transcript      string                 `json:"transcript"`
	Checkpoint      *models.QuizCheckpoint `json:"checkpoint"`
}

type CourseSyncInput struct {
	CourseID     string           `json:"course_id"`
	Title        string           `json:"title" binding:"required"`
	Description  string           `json:"description"`
	Instructor   string           `json:"instructor"`
	ThumbnailURL string           `json:"thumbnail_url"`
	Published    bool             `json:"published"`
	Videos       []VideoSyncInput `json:"videos" binding:"required"`
}

// CatalogService serves the course catalog through a Redis read-through
// cache and owns the admin ingestion path that invalidates it. It also
// composes the unlock map, since that needs the catalog snapshot.
type CatalogService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	Quiz           *QuizService
	Cache          *repository.CacheRepository
	Publisher      *event.EventPublisher
	cacheTTL       time.Duration
}

func NewCatalogService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	quiz *QuizService,
	cache *repository.CacheRepository,
	publisher *event.EventPublisher,
	cacheTTL time.Duration,
) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		Quiz:           quiz,
		Cache:          cache,
		Publisher:      publisher,
		cacheTTL:       cacheTTL,
	}
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	if s.Cache != nil {
		var cached []models.Course
		if err := s.Cache.GetStruct(ctx, cacheKeyCourses, &cached); err == nil {
			return cached, nil
		}
	}

	courses, err := s.CourseRepo.FindAllCourses(ctx)
	if err != nil {
		return nil, apperr.Persistence("find courses", err)
	}

	if s.Cache != nil {
		if err := s.Cache.SaveStruct(ctx, cacheKeyCourses, courses, s.cacheTTL); err != nil {
			log.Printf("Warning: could not cache course list: %v", err)
		}
	}
	return courses, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, courseID string) (*CourseDetail, error) {
	if s.Cache != nil {
		var cached CourseDetail
		if err := s.Cache.GetStruct(ctx, cacheKeyCourse+courseID, &cached); err == nil {
			return &cached, nil
		}
	}

	course, err := s.CourseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("course " + courseID)
		}
		return nil, apperr.Persistence("find course", err)
	}
	videos, err := s.CourseRepo.FindVideosByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("find videos", err)
	}

	detail := &CourseDetail{Course: *course, Videos: sanitizeVideos(videos)}
	if s.Cache != nil {
		if err := s.Cache.SaveStruct(ctx, cacheKeyCourse+courseID, detail, s.cacheTTL); err != nil {
			log.Printf("Warning: could not cache course %s: %v", courseID, err)
		}
	}
	return detail, nil
}

// GetAccessMap recomputes the per-video lock map from current snapshots.
// Called on every navigation attempt; never cached.
func (s *CatalogService) GetAccessMap(ctx context.Context, studentID, courseID string) (map[string]unlock.Access, error) {
	videos, err := s.CourseRepo.FindVideosByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("find videos", err)
	}

	enrolled := false
	if studentID != "" {
		enrollment, err := s.EnrollmentRepo.FindByStudentCourse(ctx, studentID, courseID)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, apperr.Persistence("find enrollment", err)
		}
		enrolled = err == nil && enrollment.IsActive
	}

	progress := map[string]models.VideoProgress{}
	gates := map[string]unlock.GateFact{}
	if enrolled {
		progress, err = s.ProgressRepo.FindByStudentCourse(ctx, studentID, courseID)
		if err != nil {
			return nil, apperr.Persistence("find course progress", err)
		}
		facts, err := s.Quiz.GateFacts(ctx, studentID, courseID)
		if err != nil {
			return nil, err
		}
		for videoID, open := range facts {
			gates[videoID] = unlock.GateFact{Open: open}
		}
	}

	return unlock.ComputeMap(videos, progress, gates, enrolled), nil
}

// SyncCourse is the playlist-sync ingestion endpoint: upserts a course and
// its ordered videos, validates embedded checkpoints, and drops the cache
// entries the write invalidates.
func (s *CatalogService) SyncCourse(ctx context.Context, input *CourseSyncInput) (*CourseDetail, error) {
	if len(input.Videos) == 0 {
		return nil, fmt.Errorf("course needs at least one video")
	}

	ordered := make([]VideoSyncInput, len(input.Videos))
	copy(ordered, input.Videos)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })
	for i, v := range ordered {
		if v.Position != i {
			return nil, fmt.Errorf("video positions must be contiguous from 0, got %d at rank %d", v.Position, i)
		}
		if v.Checkpoint != nil {
			if err := v.Checkpoint.Validate(); err != nil {
				return nil, fmt.Errorf("video %d checkpoint: %w", i, err)
			}
		}
	}

	now := time.Now()
	course := &models.Course{
		Title:        input.Title,
		Description:  input.Description,
		Instructor:   input.Instructor,
		ThumbnailURL: input.ThumbnailURL,
		TotalLessons: len(ordered),
		Published:    input.Published,
		UpdatedAt:    now,
	}

	if input.CourseID == "" {
		course.CreatedAt = now
		if err := s.CourseRepo.CreateCourse(ctx, course); err != nil {
			return nil, apperr.Persistence("create course", err)
		}
	} else {
		course.ID = input.CourseID
		update := bson.M{
			"title":         course.Title,
			"description":   course.Description,
			"instructor":    course.Instructor,
			"thumbnail_url": course.ThumbnailURL,
			"total_lessons": course.TotalLessons,
			"published":     course.Published,
			"updated_at":    now,
		}
		if err := s.CourseRepo.UpdateCourse(ctx, input.CourseID, update); err != nil {
			return nil, apperr.Persistence("update course", err)
		}
		if err := s.CourseRepo.DeleteVideosByCourse(ctx, input.CourseID); err != nil {
			return nil, apperr.Persistence("clear course videos", err)
		}
	}

	var videos []models.Video
	for _, v := range ordered {
		video := models.Video{
			CourseID:        course.ID,
			Title:           v.Title,
			URL:             v.URL,
			DurationSeconds: v.DurationSeconds,
			Position:        v.Position,
			Locked:          v.Position > 0,
			Transcript:      v.Transcript,
			Checkpoint:      v.Checkpoint,
		}
		if err := s.CourseRepo.CreateVideo(ctx, &video); err != nil {
			return nil, apperr.Persistence("create video", err)
		}
		videos = append(videos, video)
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, cacheKeyCourses, cacheKeyCourse+course.ID); err != nil {
			log.Printf("Warning: could not invalidate catalog cache: %v", err)
		}
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.CourseSynced, map[string]interface{}{
			"course_id": course.ID,
			"videos":    len(videos),
		})
	}

	return &CourseDetail{Course: *course, Videos: sanitizeVideos(videos)}, nil
}

// sanitizeVideos strips answer keys and transcripts from catalog views:
// the player only needs to know a checkpoint exists and where it sits.
func sanitizeVideos(videos []models.Video) []models.Video {
	out := make([]models.Video, len(videos))
	for i, v := range videos {
		v.Transcript = ""
		if v.Checkpoint != nil {
			v.Checkpoint = &models.QuizCheckpoint{StartTimeSeconds: v.Checkpoint.StartTimeSeconds}
		}
		out[i] = v
	}
	return out
}
