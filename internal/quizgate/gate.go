package quizgate

import (
	"learning-service/internal/apperr"
	"learning-service/internal/models"
)

// Manager drives gate transitions. It holds no per-student state; callers
// load a GateState, apply transitions, and persist what changed.
type Manager struct {
	config *Config
}

func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{config: config}
}

// Activate fires the INACTIVE -> ACTIVE transition when playback crosses
// the checkpoint timestamp. Edge-triggered: once the gate has started,
// repeated crossings are accepted as no-ops and return false.
func (m *Manager) Activate(g *GateState, positionSeconds float64, cp *models.QuizCheckpoint) bool {
	if g.Started() {
		return false
	}
	if positionSeconds < cp.StartTimeSeconds {
		return false
	}
	g.State = StateActive
	g.CurrentQuestion = 0
	g.SelectedOption = NoSelection
	return true
}

// SelectOption records the student's current choice. The first selection on
// a primary question moves ACTIVE -> ANSWERING; re-selection just replaces
// the slot.
func (m *Manager) SelectOption(g *GateState, cp *models.QuizCheckpoint, option int) error {
	switch g.State {
	case StateActive, StateAnswering:
		q := cp.Questions[g.CurrentQuestion]
		if option < 0 || option >= len(q.Options) {
			return apperr.InvalidTransition("selected option out of range")
		}
		g.SelectedOption = option
		g.State = StateAnswering
		return nil
	case StateReinforcement:
		rq := cp.Questions[g.CurrentQuestion].Reinforcement[g.ReinforcementIndex]
		if option < 0 || option >= len(rq.Options) {
			return apperr.InvalidTransition("selected option out of range")
		}
		g.SelectedOption = option
		return nil
	default:
		return apperr.InvalidTransition("cannot select an answer in state " + string(g.State))
	}
}

// Submit evaluates the current selection against the checkpoint.
func (m *Manager) Submit(g *GateState, cp *models.QuizCheckpoint) (*SubmitResult, error) {
	if g.SelectedOption == NoSelection {
		return nil, apperr.InvalidTransition("no option selected")
	}

	switch g.State {
	case StateAnswering:
		return m.submitPrimary(g, cp), nil
	case StateReinforcement:
		return m.submitReinforcement(g, cp), nil
	case StateInactive:
		return nil, apperr.InvalidTransition("quiz has not started")
	case StatePassed, StateExhausted:
		return nil, apperr.InvalidTransition("quiz already resolved")
	default:
		return nil, apperr.InvalidTransition("no answer pending in state " + string(g.State))
	}
}

func (m *Manager) submitPrimary(g *GateState, cp *models.QuizCheckpoint) *SubmitResult {
	q := cp.Questions[g.CurrentQuestion]

	if g.SelectedOption == q.CorrectAnswer {
		g.Questions[g.CurrentQuestion] = QuestionStatus{Satisfied: true, Correct: true}
		result := &SubmitResult{Correct: true, Explanation: q.Explanation}
		m.advance(g, result)
		return result
	}

	// Wrong primary answer: degrade to the reinforcement loop for this
	// concept instead of failing the quiz.
	g.State = StateReinforcement
	g.ReinforcementIndex = 0
	g.ReinforcementAttempts = 0
	g.SelectedOption = NoSelection
	return &SubmitResult{
		Correct:              false,
		EnteredReinforcement: true,
		ReinforcementIndex:   0,
		NextQuestion:         g.CurrentQuestion,
	}
}

func (m *Manager) submitReinforcement(g *GateState, cp *models.QuizCheckpoint) *SubmitResult {
	q := cp.Questions[g.CurrentQuestion]
	rq := q.Reinforcement[g.ReinforcementIndex]
	g.ReinforcementAttempts++

	if g.SelectedOption == rq.CorrectAnswer {
		g.Questions[g.CurrentQuestion] = QuestionStatus{Satisfied: true, Correct: true, ViaReinforcement: true}
		result := &SubmitResult{Correct: true, Explanation: rq.Explanation}
		m.advance(g, result)
		return result
	}

	if g.ReinforcementAttempts >= m.config.ReinforcementAttempts ||
		g.ReinforcementIndex+1 >= len(q.Reinforcement) {
		// Both reinforcement attempts spent. The question is resolved
		// without credit and the quiz moves on.
		g.Questions[g.CurrentQuestion] = QuestionStatus{Satisfied: true, MaxAttemptsReached: true}
		result := &SubmitResult{
			Correct:            false,
			MaxAttemptsReached: true,
			Explanation:        q.Explanation,
		}
		m.advance(g, result)
		return result
	}

	g.ReinforcementIndex++
	g.SelectedOption = NoSelection
	return &SubmitResult{
		Correct:              false,
		EnteredReinforcement: true,
		ReinforcementIndex:   g.ReinforcementIndex,
		NextQuestion:         g.CurrentQuestion,
	}
}

// advance moves past a satisfied question: next primary question, or a
// terminal state once the list is exhausted.
func (m *Manager) advance(g *GateState, result *SubmitResult) {
	g.SelectedOption = NoSelection
	g.ReinforcementIndex = NoSelection
	g.ReinforcementAttempts = 0

	if g.CurrentQuestion+1 < len(g.Questions) {
		g.CurrentQuestion++
		g.State = StateActive
		result.NextQuestion = g.CurrentQuestion
		return
	}

	allCorrect := true
	for _, qs := range g.Questions {
		if !qs.Correct {
			allCorrect = false
			break
		}
	}
	if allCorrect {
		g.State = StatePassed
		result.Passed = true
	} else {
		g.State = StateExhausted
	}
	result.Completed = true
	result.NextQuestion = g.CurrentQuestion
}
