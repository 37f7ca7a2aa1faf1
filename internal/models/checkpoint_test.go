package models

import "testing"

func validQuestion() QuizQuestion {
	return QuizQuestion{
		Content:       "What does the demo cover?",
		Options:       []Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
		CorrectAnswer: 0,
		Explanation:   "see 0:30",
		Reinforcement: []ReinforcementQuestion{
			{Content: "r1", Options: []Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}}, CorrectAnswer: 1},
			{Content: "r2", Options: []Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}}, CorrectAnswer: 0},
		},
	}
}

func TestCheckpointValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*QuizCheckpoint)
		wantErr bool
	}{
		{"valid", func(cp *QuizCheckpoint) {}, false},
		{"negative timestamp", func(cp *QuizCheckpoint) { cp.StartTimeSeconds = -1 }, true},
		{"no questions", func(cp *QuizCheckpoint) { cp.Questions = nil }, true},
		{"empty content", func(cp *QuizCheckpoint) { cp.Questions[0].Content = "" }, true},
		{"single option", func(cp *QuizCheckpoint) { cp.Questions[0].Options = cp.Questions[0].Options[:1] }, true},
		{"answer out of range", func(cp *QuizCheckpoint) { cp.Questions[0].CorrectAnswer = 7 }, true},
		{"negative answer", func(cp *QuizCheckpoint) { cp.Questions[0].CorrectAnswer = -1 }, true},
		{"missing reinforcement", func(cp *QuizCheckpoint) {
			cp.Questions[0].Reinforcement = cp.Questions[0].Reinforcement[:1]
		}, true},
		{"extra reinforcement", func(cp *QuizCheckpoint) {
			cp.Questions[0].Reinforcement = append(cp.Questions[0].Reinforcement, ReinforcementQuestion{})
		}, true},
		{"bad reinforcement answer", func(cp *QuizCheckpoint) {
			cp.Questions[0].Reinforcement[0].CorrectAnswer = 9
		}, true},
		{"blank option text", func(cp *QuizCheckpoint) { cp.Questions[0].Options[1].Text = "" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cp := &QuizCheckpoint{
				StartTimeSeconds: 30,
				Questions:        []QuizQuestion{validQuestion()},
			}
			tc.mutate(cp)
			err := cp.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
