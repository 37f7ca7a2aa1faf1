package service

import (
	"context"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	Publisher      *event.EventPublisher
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	publisher *event.EventPublisher,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		CourseRepo:     courseRepo,
		Publisher:      publisher,
	}
}

// Enroll creates the enrollment, or reactivates a soft-deactivated one.
// Aggregates are rebuilt from the ledger either way, so a returning
// student keeps earlier completions.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.CourseEnrollment, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}

	if _, err := s.CourseRepo.FindCourseByID(ctx, courseID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("course " + courseID)
		}
		return nil, apperr.Persistence("find course", err)
	}

	completed, err := s.ProgressRepo.CountCompleted(ctx, studentID, courseID)
	if err != nil {
		return nil, apperr.Persistence("count completed", err)
	}
	total, err := s.CourseRepo.CountVideos(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("count videos", err)
	}

	now := time.Now()
	enrollment, err := s.EnrollmentRepo.FindByStudentCourse(ctx, studentID, courseID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperr.Persistence("find enrollment", err)
	}

	if err == mongo.ErrNoDocuments {
		enrollment = &models.CourseEnrollment{
			ID:             uuid.NewString(),
			StudentID:      studentID,
			CourseID:       courseID,
			IsActive:       true,
			EnrolledAt:     now,
			LastAccessedAt: now,
		}
		enrollment.Recalculate(int(completed), int(total))
		if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
			return nil, apperr.Persistence("create enrollment", err)
		}
	} else {
		if err := s.EnrollmentRepo.SetActive(ctx, studentID, courseID, true); err != nil {
			return nil, apperr.Persistence("reactivate enrollment", err)
		}
		enrollment.IsActive = true
		enrollment.Recalculate(int(completed), int(total))
		enrollment.LastAccessedAt = now
		if err := s.EnrollmentRepo.UpdateAggregates(ctx, enrollment); err != nil {
			return nil, apperr.Persistence("update enrollment aggregates", err)
		}
	}

	if s.Publisher != nil {
		s.Publisher.Publish(event.EnrollmentCreated, map[string]string{
			"student_id": studentID,
			"course_id":  courseID,
		})
	}
	return enrollment, nil
}

// Deactivate soft-deletes the enrollment. The ledger keeps its records.
func (s *EnrollmentService) Deactivate(ctx context.Context, studentID, courseID string) error {
	if studentID == "" {
		return apperr.ErrUnauthorized
	}
	if err := s.EnrollmentRepo.SetActive(ctx, studentID, courseID, false); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("enrollment")
		}
		return apperr.Persistence("deactivate enrollment", err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.EnrollmentDeactivated, map[string]string{
			"student_id": studentID,
			"course_id":  courseID,
		})
	}
	return nil
}

func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID string) ([]models.CourseEnrollment, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}
	enrollments, err := s.EnrollmentRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Persistence("find enrollments", err)
	}
	return enrollments, nil
}

// IsEnrolled is the boolean fact the unlock policy needs.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	if studentID == "" {
		return false, nil
	}
	enrollment, err := s.EnrollmentRepo.FindByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, apperr.Persistence("find enrollment", err)
	}
	return enrollment.IsActive, nil
}
