package service

import (
	"context"

	"learning-service/internal/apperr"
	"learning-service/internal/repository"
)

// CourseStatsView joins the enrollment aggregation with catalog titles for
// the admin dashboard.
type CourseStatsView struct {
	CourseID          string  `json:"course_id"`
	Title             string  `json:"title"`
	Students          int64   `json:"students"`
	AverageCompletion float64 `json:"average_completion"`
}

type PlatformStats struct {
	TotalCourses     int               `json:"total_courses"`
	TotalEnrollments int64             `json:"total_enrollments"`
	Courses          []CourseStatsView `json:"courses"`
}

type StatsService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewStatsService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *StatsService {
	return &StatsService{CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

func (s *StatsService) Overview(ctx context.Context) (*PlatformStats, error) {
	courses, err := s.CourseRepo.FindAllCourses(ctx)
	if err != nil {
		return nil, apperr.Persistence("find courses", err)
	}
	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	rows, err := s.EnrollmentRepo.StatsByCourse(ctx)
	if err != nil {
		return nil, apperr.Persistence("aggregate enrollments", err)
	}

	stats := &PlatformStats{TotalCourses: len(courses)}
	for _, row := range rows {
		stats.TotalEnrollments += row.Students
		stats.Courses = append(stats.Courses, CourseStatsView{
			CourseID:          row.CourseID,
			Title:             titles[row.CourseID],
			Students:          row.Students,
			AverageCompletion: row.AverageCompletion,
		})
	}
	return stats, nil
}
