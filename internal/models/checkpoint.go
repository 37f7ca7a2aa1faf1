package models

import "fmt"

// ReinforcementPerQuestion is the fixed number of simplified follow-up
// questions attached to every primary question. A student who misses the
// primary gets one attempt per reinforcement question before the question
// is marked resolved-incorrect.
const ReinforcementPerQuestion = 2

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// ReinforcementQuestion is the simplified follow-up shape. It has no
// reinforcement of its own; the union of question shapes is closed here.
type ReinforcementQuestion struct {
	Content       string   `bson:"content" json:"content"`
	Options       []Option `bson:"options" json:"options"`
	CorrectAnswer int      `bson:"correct_answer" json:"correct_answer"`
	Explanation   string   `bson:"explanation" json:"explanation"`
}

// QuizQuestion is a primary comprehension question with exactly two
// reinforcement sub-questions.
type QuizQuestion struct {
	Content       string                  `bson:"content" json:"content"`
	Options       []Option                `bson:"options" json:"options"`
	CorrectAnswer int                     `bson:"correct_answer" json:"correct_answer"`
	Explanation   string                  `bson:"explanation" json:"explanation"`
	Reinforcement []ReinforcementQuestion `bson:"reinforcement" json:"reinforcement"`
}

// QuizCheckpoint anchors a question list to a timestamp in the video.
// Crossing StartTime during playback opens the quiz gate.
type QuizCheckpoint struct {
	StartTimeSeconds float64        `bson:"start_time_seconds" json:"start_time_seconds"`
	Questions        []QuizQuestion `bson:"questions" json:"questions"`
}

func (o Option) validate() error {
	if o.Text == "" {
		return fmt.Errorf("option text is required")
	}
	return nil
}

func validateAnswerable(content string, options []Option, correct int) error {
	if content == "" {
		return fmt.Errorf("question content is required")
	}
	if len(options) < 2 {
		return fmt.Errorf("question needs at least 2 options, got %d", len(options))
	}
	for i, o := range options {
		if err := o.validate(); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
	}
	if correct < 0 || correct >= len(options) {
		return fmt.Errorf("correct_answer %d out of range [0,%d)", correct, len(options))
	}
	return nil
}

func (q *QuizQuestion) Validate() error {
	if err := validateAnswerable(q.Content, q.Options, q.CorrectAnswer); err != nil {
		return err
	}
	if len(q.Reinforcement) != ReinforcementPerQuestion {
		return fmt.Errorf("expected %d reinforcement questions, got %d", ReinforcementPerQuestion, len(q.Reinforcement))
	}
	for i, rq := range q.Reinforcement {
		if err := validateAnswerable(rq.Content, rq.Options, rq.CorrectAnswer); err != nil {
			return fmt.Errorf("reinforcement %d: %w", i, err)
		}
	}
	return nil
}

func (cp *QuizCheckpoint) Validate() error {
	if cp.StartTimeSeconds < 0 {
		return fmt.Errorf("start_time_seconds must be >= 0")
	}
	if len(cp.Questions) == 0 {
		return fmt.Errorf("checkpoint needs at least one question")
	}
	for i := range cp.Questions {
		if err := cp.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
