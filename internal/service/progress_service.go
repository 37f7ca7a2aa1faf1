package service

import (
	"context"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// Video progress statuses reported to the presentation layer. NotEnrolled
// is deliberately distinct from NotStarted (0% watched).
const (
	StatusNotEnrolled = "not_enrolled"
	StatusNotStarted  = "not_started"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
)

type VideoProgressView struct {
	VideoID        string  `json:"video_id"`
	Position       int     `json:"position"`
	Status         string  `json:"status"`
	WatchedPercent float64 `json:"watched_percent"`
	Completed      bool    `json:"completed"`
}

type CourseProgressView struct {
	CourseID          string              `json:"course_id"`
	Enrolled          bool                `json:"enrolled"`
	CompletionPercent int                 `json:"completion_percent"`
	CompletedLessons  int                 `json:"completed_lessons"`
	TotalLessons      int                 `json:"total_lessons"`
	Videos            []VideoProgressView `json:"videos"`
}

// ProgressService is the progress ledger: the authoritative record of what
// each student has watched and completed, plus the enrollment aggregates
// derived from it.
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Publisher      *event.EventPublisher
	threshold      float64
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	publisher *event.EventPublisher,
	completionThreshold float64,
) *ProgressService {
	if completionThreshold <= 0 || completionThreshold > 100 {
		completionThreshold = models.DefaultCompletionThreshold
	}
	return &ProgressService{
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Publisher:      publisher,
		threshold:      completionThreshold,
	}
}

// ReportProgress folds a playback report into the ledger. Completion
// latches at the threshold; a newly completed video triggers the owning
// enrollment's aggregate recompute before the report is considered
// committed.
func (s *ProgressService) ReportProgress(ctx context.Context, studentID, videoID string, watchedPercent float64) (*models.VideoProgress, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}

	video, err := s.CourseRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("video " + videoID)
		}
		return nil, apperr.Persistence("find video", err)
	}

	progress, err := s.ProgressRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, apperr.Persistence("find progress", err)
		}
		progress = &models.VideoProgress{
			StudentID: studentID,
			VideoID:   videoID,
			CourseID:  video.CourseID,
		}
	}

	newlyCompleted := progress.ApplyReport(watchedPercent, s.threshold)
	progress.UpdatedAt = time.Now()

	if err := s.ProgressRepo.Upsert(ctx, progress); err != nil {
		return nil, apperr.Persistence("save progress", err)
	}

	if newlyCompleted {
		if err := s.recomputeEnrollment(ctx, studentID, video.CourseID); err != nil {
			return nil, err
		}
		if s.Publisher != nil {
			s.Publisher.Publish(event.VideoCompleted, map[string]string{
				"student_id": studentID,
				"video_id":   videoID,
				"course_id":  video.CourseID,
			})
		}
	} else if s.Publisher != nil {
		s.Publisher.Publish(event.ProgressReported, map[string]interface{}{
			"student_id":      studentID,
			"video_id":        videoID,
			"watched_percent": progress.WatchedPercent,
		})
	}

	return progress, nil
}

// MarkVideoCompleted latches completion regardless of watched percent, the
// path taken when the checkpoint quiz resolves with a pass. The ledger and
// enrollment writes complete before the caller may treat its own state as
// committed.
func (s *ProgressService) MarkVideoCompleted(ctx context.Context, studentID, videoID, courseID string, quizPassed bool) error {
	if studentID == "" {
		return apperr.ErrUnauthorized
	}

	progress, err := s.ProgressRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return apperr.Persistence("find progress", err)
		}
		progress = &models.VideoProgress{
			StudentID: studentID,
			VideoID:   videoID,
			CourseID:  courseID,
		}
	}

	newlyCompleted := progress.MarkCompleted()
	if quizPassed {
		progress.QuizPassed = true
	}
	progress.UpdatedAt = time.Now()

	if err := s.ProgressRepo.Upsert(ctx, progress); err != nil {
		return apperr.Persistence("save progress", err)
	}
	if newlyCompleted {
		if err := s.recomputeEnrollment(ctx, studentID, courseID); err != nil {
			return err
		}
		if s.Publisher != nil {
			s.Publisher.Publish(event.VideoCompleted, map[string]string{
				"student_id": studentID,
				"video_id":   videoID,
				"course_id":  courseID,
			})
		}
	}
	return nil
}

// GetProgress returns the ledger record, or the not-started default when
// none exists. An absent record is not an error.
func (s *ProgressService) GetProgress(ctx context.Context, studentID, videoID string) (*models.VideoProgress, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}
	progress, err := s.ProgressRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.VideoProgress{StudentID: studentID, VideoID: videoID}, nil
		}
		return nil, apperr.Persistence("find progress", err)
	}
	return progress, nil
}

// GetCourseProgress aggregates the ledger for a whole course. Unenrolled
// students get an explicit not-enrolled view rather than zeros.
func (s *ProgressService) GetCourseProgress(ctx context.Context, studentID, courseID string) (*CourseProgressView, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}

	videos, err := s.CourseRepo.FindVideosByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("find videos", err)
	}

	view := &CourseProgressView{CourseID: courseID}

	enrollment, err := s.EnrollmentRepo.FindByStudentCourse(ctx, studentID, courseID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperr.Persistence("find enrollment", err)
	}
	enrolled := err == nil && enrollment.IsActive

	if !enrolled {
		for _, v := range videos {
			view.Videos = append(view.Videos, VideoProgressView{
				VideoID:  v.ID,
				Position: v.Position,
				Status:   StatusNotEnrolled,
			})
		}
		return view, nil
	}

	progressMap, err := s.ProgressRepo.FindByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, apperr.Persistence("find course progress", err)
	}

	view.Enrolled = true
	view.CompletionPercent = enrollment.CompletionPercent
	view.CompletedLessons = enrollment.CompletedLessons
	view.TotalLessons = enrollment.TotalLessons

	for _, v := range videos {
		item := VideoProgressView{VideoID: v.ID, Position: v.Position, Status: StatusNotStarted}
		if p, ok := progressMap[v.ID]; ok {
			item.WatchedPercent = p.WatchedPercent
			item.Completed = p.Completed
			if p.Completed {
				item.Status = StatusCompleted
			} else if p.WatchedPercent > 0 {
				item.Status = StatusInProgress
			}
		}
		view.Videos = append(view.Videos, item)
	}
	return view, nil
}

// recomputeEnrollment rebuilds the derived aggregates from the ledger.
// Missing enrollment is fine: a previewing student can watch video 0
// without one.
func (s *ProgressService) recomputeEnrollment(ctx context.Context, studentID, courseID string) error {
	enrollment, err := s.EnrollmentRepo.FindByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return apperr.Persistence("find enrollment", err)
	}

	completed, err := s.ProgressRepo.CountCompleted(ctx, studentID, courseID)
	if err != nil {
		return apperr.Persistence("count completed", err)
	}
	total, err := s.CourseRepo.CountVideos(ctx, courseID)
	if err != nil {
		return apperr.Persistence("count videos", err)
	}

	enrollment.Recalculate(int(completed), int(total))
	enrollment.LastAccessedAt = time.Now()
	if err := s.EnrollmentRepo.UpdateAggregates(ctx, enrollment); err != nil {
		return apperr.Persistence("update enrollment aggregates", err)
	}
	return nil
}
