package quizgate

import (
	"errors"
	"testing"

	"learning-service/internal/apperr"
	"learning-service/internal/models"
)

func testCheckpoint(questionCount int) *models.QuizCheckpoint {
	cp := &models.QuizCheckpoint{StartTimeSeconds: 30}
	for i := 0; i < questionCount; i++ {
		cp.Questions = append(cp.Questions, models.QuizQuestion{
			Content: "primary",
			Options: []models.Option{
				{ID: "a", Text: "A"},
				{ID: "b", Text: "B"},
				{ID: "c", Text: "C"},
			},
			CorrectAnswer: 1,
			Explanation:   "because B",
			Reinforcement: []models.ReinforcementQuestion{
				{
					Content:       "simpler 1",
					Options:       []models.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
					CorrectAnswer: 0,
				},
				{
					Content:       "simpler 2",
					Options:       []models.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
					CorrectAnswer: 1,
				},
			},
		})
	}
	return cp
}

func TestActivationIsEdgeTriggered(t *testing.T) {
	manager := NewManager(nil)
	cp := testCheckpoint(1)
	gate := NewGateState("video-1", len(cp.Questions))

	if manager.Activate(gate, 10, cp) {
		t.Error("expected no activation before the checkpoint timestamp")
	}
	if gate.State != StateInactive {
		t.Errorf("expected state inactive, got %s", gate.State)
	}

	if !manager.Activate(gate, 31, cp) {
		t.Error("expected activation when crossing the checkpoint timestamp")
	}
	if gate.State != StateActive {
		t.Errorf("expected state active, got %s", gate.State)
	}

	// Duplicate crossing events must not re-trigger the transition.
	if manager.Activate(gate, 31, cp) {
		t.Error("expected second crossing to be a no-op")
	}
	if manager.Activate(gate, 32, cp) {
		t.Error("expected later crossing to be a no-op")
	}
}

func TestBlockingEqualsStartedAndNotCompleted(t *testing.T) {
	manager := NewManager(nil)
	cp := testCheckpoint(1)
	gate := NewGateState("video-1", len(cp.Questions))

	check := func(label string) {
		expected := gate.Started() && !gate.Completed()
		if gate.IsBlocking() != expected {
			t.Errorf("%s: IsBlocking %v, want started && !completed = %v", label, gate.IsBlocking(), expected)
		}
	}

	check("inactive")
	if gate.IsBlocking() {
		t.Error("inactive gate must not block")
	}

	manager.Activate(gate, 31, cp)
	check("active")
	if !gate.IsBlocking() {
		t.Error("started gate must block")
	}

	if err := manager.SelectOption(gate, cp, 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	check("answering")

	result, err := manager.Submit(gate, cp)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Completed || !result.Passed {
		t.Errorf("expected completed pass, got %+v", result)
	}
	check("resolved")
	if gate.IsBlocking() {
		t.Error("resolved gate must not block")
	}
}

func TestCorrectAnswersResolvePass(t *testing.T) {
	manager := NewManager(nil)
	cp := testCheckpoint(3)
	gate := NewGateState("video-1", len(cp.Questions))
	manager.Activate(gate, 31, cp)

	for i := 0; i < 3; i++ {
		if gate.State != StateActive {
			t.Fatalf("question %d: expected active, got %s", i, gate.State)
		}
		if gate.CurrentQuestion != i {
			t.Fatalf("expected current question %d, got %d", i, gate.CurrentQuestion)
		}
		if err := manager.SelectOption(gate, cp, 1); err != nil {
			t.Fatalf("select question %d: %v", i, err)
		}
		result, err := manager.Submit(gate, cp)
		if err != nil {
			t.Fatalf("submit question %d: %v", i, err)
		}
		if !result.Correct {
			t.Errorf("question %d: expected correct", i)
		}
		if i < 2 && result.Completed {
			t.Errorf("question %d: completed too early", i)
		}
	}

	if gate.State != StatePassed {
		t.Errorf("expected resolved_pass, got %s", gate.State)
	}
	for i, qs := range gate.Questions {
		if !qs.Satisfied || !qs.Correct || qs.ViaReinforcement {
			t.Errorf("question %d: unexpected status %+v", i, qs)
		}
	}
}

func TestReinforcementRecoversCredit(t *testing.T) {
	manager := NewManager(nil)
	cp := testCheckpoint(1)
	gate := NewGateState("video-1", len(cp.Questions))
	manager.Activate(gate, 31, cp)

	// Miss the primary question.
	if err := manager.SelectOption(gate, cp, 0); err != nil {
		t.Fatalf("select: %v", err)
	}
	result, err := manager.Submit(gate, cp)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct || !result.EnteredReinforcement {
		t.Fatalf("expected reinforcement entry, got %+v", result)
	}
	if gate.State != StateReinforcement {
		t.Fatalf("expected reinforcement state, got %s", gate.State)
	}

	// Answer the first reinforcement question correctly.
	if err := manager.SelectOption(gate, cp, 0); err != nil {
		t.Fatalf("select reinforcement: %v", err)
	}
	result, err = manager.Submit(gate, cp)
	if err != nil {
		t.Fatalf("submit reinforcement: %v", err)
	}
	if !result.Correct || !result.Completed || !result.Passed {
		t.Errorf("expected reinforcement pass to complete the quiz, got %+v", result)
	}
	qs := gate.Questions[0]
	if !qs.Correct || !qs.ViaReinforcement {
		t.Errorf("expected via-reinforcement credit, got %+v", qs)
	}
}

func TestReinforcementBoundIsTwoAttempts(t *testing.T) {
	manager := NewManager(nil)
	cp := testCheckpoint(2)
	gate := NewGateState("video-1", len(cp.Questions))
	manager.Activate(gate, 31, cp)

	// Miss the primary, then both reinforcement attempts.
	if err := manager.SelectOption(gate, cp, 0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := manager.Submit(gate, cp); err != nil {
		t.Fatalf("submit primary: %v", err)
	}

	// First reinforcement question: correct answer is 0, choose 1.
	if err := manager.SelectOption(gate, cp, 1); err != nil {
		t.Fatalf("select reinforcement 1: %v", err)
	}
	result, err := manager.Submit(gate, cp)
	if err != nil {
		t.Fatalf("submit reinforcement 1: %v", err)
	}
	if result.MaxAttemptsReached {
		t.Fatal("max attempts reached after a single reinforcement attempt")
	}
	if result.ReinforcementIndex != 1 {
		t.Fatalf("expected second reinforcement question, got index %d", result.ReinforcementIndex)
	}

	// Second reinforcement question: correct answer is 1, choose 0.
	if err := manager.SelectOption(gate, cp, 0); err != nil {
		t.Fatalf("select reinforcement 2: %v", err)
	}
	result, err = manager.Submit(gate, cp)
	if err != nil {
		t.Fatalf("submit reinforcement 2: %v", err)
	}
	if !result.MaxAttemptsReached {
		t.Error("expected max attempts after two reinforcement misses")
	}
	if result.Explanation == "" {
		t.Error("expected the explanation to be surfaced on exhaustion")
	}

	// Attempt 3 must not be offered: the quiz moved on to question 2.
	if gate.State != StateActive || gate.CurrentQuestion != 1 {
		t.Errorf("expected advance to question 1, got state %s question %d", gate.State, gate.CurrentQuestion)
	}
	qs := gate.Questions[0]
	if !qs.Satisfied || qs.Correct || !qs.MaxAttemptsReached {
		t.Errorf("expected resolved-incorrect outcome, got %+v", qs)
	}

	// Finish question 2 correctly: terminal is exhausted, not pass.
	if err := manager.SelectOption(gate, cp, 1); err != nil {
		t.Fatalf("select question 2: %v", err)
	}
	result, err = manager.Submit(gate, cp)
	if err != nil {
		t.Fatalf("submit question 2: %v", err)
	}
	if !result.Completed || result.Passed {
		t.Errorf("expected completed without full credit, got %+v", result)
	}
	if gate.State != StateExhausted {
		t.Errorf("expected resolved_fail_exhausted, got %s", gate.State)
	}
	if gate.IsBlocking() {
		t.Error("exhausted terminal must not block")
	}
}

func TestInvalidTransitionsRejectedWithoutMutation(t *testing.T) {
	manager := NewManager(nil)
	cp := testCheckpoint(1)

	t.Run("submit while inactive", func(t *testing.T) {
		gate := NewGateState("video-1", len(cp.Questions))
		if _, err := manager.Submit(gate, cp); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Errorf("expected invalid transition, got %v", err)
		}
		if gate.State != StateInactive {
			t.Errorf("state mutated on rejected submit: %s", gate.State)
		}
	})

	t.Run("select while inactive", func(t *testing.T) {
		gate := NewGateState("video-1", len(cp.Questions))
		if err := manager.SelectOption(gate, cp, 0); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Errorf("expected invalid transition, got %v", err)
		}
	})

	t.Run("select out of range", func(t *testing.T) {
		gate := NewGateState("video-1", len(cp.Questions))
		manager.Activate(gate, 31, cp)
		if err := manager.SelectOption(gate, cp, 5); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Errorf("expected invalid transition, got %v", err)
		}
		if gate.SelectedOption != NoSelection {
			t.Error("selection recorded despite rejection")
		}
	})

	t.Run("submit after resolution", func(t *testing.T) {
		gate := NewGateState("video-1", len(cp.Questions))
		manager.Activate(gate, 31, cp)
		if err := manager.SelectOption(gate, cp, 1); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, err := manager.Submit(gate, cp); err != nil {
			t.Fatalf("submit: %v", err)
		}
		gate.SelectedOption = 1
		if _, err := manager.Submit(gate, cp); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Errorf("expected invalid transition, got %v", err)
		}
		if gate.State != StatePassed {
			t.Errorf("terminal state mutated: %s", gate.State)
		}
	})
}
