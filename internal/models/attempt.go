package models

import "time"

// Gate phases as stored. Finer sub-state (current question pointer,
// selection) is carried too but only quiz_started/quiz_completed and the
// per-question outcomes matter for re-entry; a returning student whose
// attempt was started but not completed restarts the question sequence.
const (
	PhaseInactive      = "inactive"
	PhaseActive        = "active"
	PhaseAnswering     = "answering"
	PhaseReinforcement = "reinforcement"
	PhasePassed        = "resolved_pass"
	PhaseExhausted     = "resolved_fail_exhausted"
)

// QuestionOutcome records how one primary question was resolved.
type QuestionOutcome struct {
	Satisfied          bool `bson:"satisfied" json:"satisfied"`
	Correct            bool `bson:"correct" json:"correct"`
	ViaReinforcement   bool `bson:"via_reinforcement" json:"via_reinforcement"`
	MaxAttemptsReached bool `bson:"max_attempts_reached" json:"max_attempts_reached"`
}

// QuizAttemptState is the durable quiz-gate record per (student, video).
// Invariant: QuizCompleted implies QuizStarted. The gate blocks exactly
// while QuizStarted && !QuizCompleted.
type QuizAttemptState struct {
	ID                    string            `bson:"_id,omitempty" json:"id"`
	StudentID             string            `bson:"student_id" json:"student_id"`
	VideoID               string            `bson:"video_id" json:"video_id"`
	CourseID              string            `bson:"course_id" json:"course_id"`
	QuizStarted           bool              `bson:"quiz_started" json:"quiz_started"`
	QuizCompleted         bool              `bson:"quiz_completed" json:"quiz_completed"`
	Passed                bool              `bson:"passed" json:"passed"`
	Phase                 string            `bson:"phase" json:"phase"`
	CurrentQuestion       int               `bson:"current_question" json:"current_question"`
	SelectedOption        int               `bson:"selected_option" json:"selected_option"`
	ReinforcementIndex    int               `bson:"reinforcement_index" json:"reinforcement_index"`
	ReinforcementAttempts int               `bson:"reinforcement_attempts" json:"reinforcement_attempts"`
	Outcomes              []QuestionOutcome `bson:"outcomes" json:"outcomes"`
	StartedAt             time.Time         `bson:"started_at" json:"started_at"`
	CompletedAt           time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// IsBlocking reports whether this attempt currently suspends the
// surrounding UI (notes, assistant, navigation).
func (a *QuizAttemptState) IsBlocking() bool {
	return a.QuizStarted && !a.QuizCompleted
}
