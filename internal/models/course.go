package models

import "time"

type Course struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	Instructor   string    `bson:"instructor" json:"instructor"`
	ThumbnailURL string    `bson:"thumbnail_url" json:"thumbnail_url"`
	TotalLessons int       `bson:"total_lessons" json:"total_lessons"`
	Published    bool      `bson:"published" json:"published"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Video belongs to exactly one course. Position is its rank in the course's
// ordered sequence and defines unlock order. Locked is only the default shown
// to anonymous visitors; for a logged-in student the unlock policy overrides
// it at read time.
type Video struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	CourseID        string          `bson:"course_id" json:"course_id"`
	Title           string          `bson:"title" json:"title"`
	URL             string          `bson:"url" json:"url"`
	DurationSeconds int             `bson:"duration_seconds" json:"duration_seconds"`
	Position        int             `bson:"position" json:"position"`
	Locked          bool            `bson:"locked" json:"locked"`
	Transcript      string          `bson:"transcript,omitempty" json:"transcript,omitempty"`
	Checkpoint      *QuizCheckpoint `bson:"checkpoint,omitempty" json:"checkpoint,omitempty"`
}
