package models

import (
	"math"
	"time"
)

// DefaultCompletionThreshold is the watched percent at which a video counts
// as completed. Overridable through config; 95 leaves room for players that
// never report the final credits frame.
const DefaultCompletionThreshold = 95.0

// VideoProgress tracks one student's playback state for one video.
// Created on the first playback report, mutated on every report after that,
// never deleted while the enrollment exists.
type VideoProgress struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	StudentID      string    `bson:"student_id" json:"student_id"`
	VideoID        string    `bson:"video_id" json:"video_id"`
	CourseID       string    `bson:"course_id" json:"course_id"`
	WatchedPercent float64   `bson:"watched_percent" json:"watched_percent"`
	Completed      bool      `bson:"completed" json:"completed"`
	QuizPassed     bool      `bson:"quiz_passed" json:"quiz_passed"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Key is the stable document id for the (student, video) pair. Upserts
// replace by this key, so the stored _id is a string from the first insert
// on and never collides with a server-generated ObjectID.
func (p *VideoProgress) Key() string {
	return p.StudentID + ":" + p.VideoID
}

// ApplyReport folds a playback report into the record. The raw percent
// follows the player (backward seeks lower it), but Completed latches once
// set. Returns true when this report flipped Completed.
func (p *VideoProgress) ApplyReport(watchedPercent, threshold float64) bool {
	if watchedPercent < 0 {
		watchedPercent = 0
	}
	if watchedPercent > 100 {
		watchedPercent = 100
	}
	p.WatchedPercent = watchedPercent

	if !p.Completed && watchedPercent >= threshold {
		p.Completed = true
		return true
	}
	return false
}

// MarkCompleted latches Completed regardless of watched percent, used when
// the student finishes explicitly (e.g. passing the checkpoint quiz).
// Returns true when the flag was newly set.
func (p *VideoProgress) MarkCompleted() bool {
	if p.Completed {
		return false
	}
	p.Completed = true
	return true
}

// CourseEnrollment links a student to a course and carries the aggregate
// progress shown on dashboards. Soft-deactivated, never hard-deleted.
type CourseEnrollment struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	StudentID         string    `bson:"student_id" json:"student_id"`
	CourseID          string    `bson:"course_id" json:"course_id"`
	IsActive          bool      `bson:"is_active" json:"is_active"`
	CompletedLessons  int       `bson:"completed_lessons" json:"completed_lessons"`
	TotalLessons      int       `bson:"total_lessons" json:"total_lessons"`
	CompletionPercent int       `bson:"completion_percent" json:"completion_percent"`
	EnrolledAt        time.Time `bson:"enrolled_at" json:"enrolled_at"`
	LastAccessedAt    time.Time `bson:"last_accessed_at" json:"last_accessed_at"`
}

// Recalculate derives the aggregate fields from lesson counts.
// CompletionPercent is always recomputed, never edited independently.
func (e *CourseEnrollment) Recalculate(completedLessons, totalLessons int) {
	if completedLessons < 0 {
		completedLessons = 0
	}
	if totalLessons < 0 {
		totalLessons = 0
	}
	if completedLessons > totalLessons {
		completedLessons = totalLessons
	}
	e.CompletedLessons = completedLessons
	e.TotalLessons = totalLessons
	if totalLessons == 0 {
		e.CompletionPercent = 0
		return
	}
	e.CompletionPercent = int(math.Round(100 * float64(completedLessons) / float64(totalLessons)))
}
