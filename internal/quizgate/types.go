package quizgate

import "learning-service/internal/models"

type State string

const (
	StateInactive      State = "inactive"
	StateActive        State = "active"
	StateAnswering     State = "answering"
	StateReinforcement State = "reinforcement"
	StatePassed        State = "resolved_pass"
	StateExhausted     State = "resolved_fail_exhausted"
)

// NoSelection marks an empty answer slot.
const NoSelection = -1

// QuestionStatus tracks how far one primary question has been resolved.
type QuestionStatus struct {
	Satisfied          bool `json:"satisfied"`
	Correct            bool `json:"correct"`
	ViaReinforcement   bool `json:"via_reinforcement"`
	MaxAttemptsReached bool `json:"max_attempts_reached"`
}

// GateState is the in-memory quiz gate for one (student, video) pair.
// Only started/completed and the question outcomes need to survive a
// session; the rest is volatile and may be rebuilt at StateActive.
type GateState struct {
	VideoID               string           `json:"video_id"`
	State                 State            `json:"state"`
	CurrentQuestion       int              `json:"current_question"`
	SelectedOption        int              `json:"selected_option"`
	ReinforcementIndex    int              `json:"reinforcement_index"`
	ReinforcementAttempts int              `json:"reinforcement_attempts"`
	Questions             []QuestionStatus `json:"questions"`
}

// Config bounds the reinforcement loop.
type Config struct {
	ReinforcementAttempts int `json:"reinforcement_attempts"`
}

func DefaultConfig() *Config {
	return &Config{
		ReinforcementAttempts: models.ReinforcementPerQuestion,
	}
}

// SubmitResult reports what a submission did to the gate.
type SubmitResult struct {
	Correct              bool   `json:"correct"`
	EnteredReinforcement bool   `json:"entered_reinforcement"`
	ReinforcementIndex   int    `json:"reinforcement_index,omitempty"`
	MaxAttemptsReached   bool   `json:"max_attempts_reached"`
	Explanation          string `json:"explanation,omitempty"`
	NextQuestion         int    `json:"next_question"`
	Completed            bool   `json:"completed"`
	Passed               bool   `json:"passed"`
}

// NewGateState returns a fresh INACTIVE gate for a checkpoint with the
// given number of primary questions.
func NewGateState(videoID string, questionCount int) *GateState {
	return &GateState{
		VideoID:            videoID,
		State:              StateInactive,
		SelectedOption:     NoSelection,
		ReinforcementIndex: NoSelection,
		Questions:          make([]QuestionStatus, questionCount),
	}
}

// Started reports whether the gate ever left INACTIVE.
func (g *GateState) Started() bool {
	return g.State != StateInactive
}

// Completed reports whether the gate reached a terminal state.
func (g *GateState) Completed() bool {
	return g.State == StatePassed || g.State == StateExhausted
}

// IsBlocking is the single blocking predicate the presentation layer keys
// off: started and not yet completed, independent of sub-state.
func (g *GateState) IsBlocking() bool {
	return g.Started() && !g.Completed()
}
