package models

import "time"

// Note is a student's free-text note on a video. At most one exists per
// (student, video): saves upsert on the composite key instead of inserting.
type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	StudentID string    `bson:"student_id" json:"student_id"`
	VideoID   string    `bson:"video_id" json:"video_id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Tags      []string  `bson:"tags" json:"tags"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Key is the upsert identity for a note. Two saves for the same student and
// video always collapse onto the same document.
func (n *Note) Key() string {
	return n.StudentID + ":" + n.VideoID
}
