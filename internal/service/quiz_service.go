package service

import (
	"context"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/quizgate"
	"learning-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionView is a primary or reinforcement question with the answer key
// stripped, safe to hand to the player UI.
type QuestionView struct {
	Kind    string          `json:"kind"`
	Index   int             `json:"index"`
	Content string          `json:"content"`
	Options []models.Option `json:"options"`
}

// GateStatusView is the re-derivable gate snapshot the presentation layer
// polls. Blocking is always started && !completed.
type GateStatusView struct {
	VideoID         string        `json:"video_id"`
	HasCheckpoint   bool          `json:"has_checkpoint"`
	Blocking        bool          `json:"blocking"`
	Phase           string        `json:"phase"`
	QuizStarted     bool          `json:"quiz_started"`
	QuizCompleted   bool          `json:"quiz_completed"`
	Passed          bool          `json:"passed"`
	CurrentQuestion *QuestionView `json:"current_question,omitempty"`
	QuestionCount   int           `json:"question_count"`
}

// QuizService drives the per-video quiz gate: activation on checkpoint
// cross, answer submission, and the ledger hand-off on resolution.
type QuizService struct {
	AttemptRepo *repository.AttemptRepository
	CourseRepo  *repository.CourseRepository
	Progress    *ProgressService
	Publisher   *event.EventPublisher
	manager     *quizgate.Manager
}

func NewQuizService(
	attemptRepo *repository.AttemptRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
	publisher *event.EventPublisher,
) *QuizService {
	return &QuizService{
		AttemptRepo: attemptRepo,
		CourseRepo:  courseRepo,
		Progress:    progress,
		Publisher:   publisher,
		manager:     quizgate.NewManager(nil),
	}
}

// ReportPlayback handles a playback-position report for a video with a
// checkpoint. Crossing the checkpoint timestamp opens the gate exactly
// once; repeats are no-op successes.
func (s *QuizService) ReportPlayback(ctx context.Context, studentID, videoID string, positionSeconds float64) (*GateStatusView, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}

	video, err := s.CourseRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("video " + videoID)
		}
		return nil, apperr.Persistence("find video", err)
	}
	if video.Checkpoint == nil {
		return &GateStatusView{VideoID: videoID, Phase: models.PhaseInactive}, nil
	}

	attempt, err := s.loadOrNewAttempt(ctx, studentID, video)
	if err != nil {
		return nil, err
	}

	gate := s.reconstructGate(attempt, video.Checkpoint)
	activated := s.manager.Activate(gate, positionSeconds, video.Checkpoint)
	if activated {
		s.applyGate(attempt, gate)
		attempt.StartedAt = time.Now()
		if err := s.AttemptRepo.Upsert(ctx, attempt); err != nil {
			return nil, apperr.Persistence("save quiz attempt", err)
		}
		if s.Publisher != nil {
			s.Publisher.Publish(event.QuizStarted, map[string]string{
				"student_id": studentID,
				"video_id":   videoID,
			})
		}
	}

	return s.statusView(video, attempt, gate), nil
}

// SubmitAnswer records a selection and evaluates it. When the submission
// resolves the quiz, the progress ledger write is awaited before the
// terminal attempt state is persisted or reported, so the student never
// sees "passed" backed by an incomplete record.
func (s *QuizService) SubmitAnswer(ctx context.Context, studentID, videoID string, selectedOption int) (*quizgate.SubmitResult, *GateStatusView, error) {
	if studentID == "" {
		return nil, nil, apperr.ErrUnauthorized
	}

	video, err := s.CourseRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, apperr.NotFound("video " + videoID)
		}
		return nil, nil, apperr.Persistence("find video", err)
	}
	if video.Checkpoint == nil {
		return nil, nil, apperr.NotFound("checkpoint for video " + videoID)
	}

	attempt, err := s.AttemptRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, apperr.InvalidTransition("quiz has not started")
		}
		return nil, nil, apperr.Persistence("find quiz attempt", err)
	}

	gate := s.reconstructGate(attempt, video.Checkpoint)
	if err := s.manager.SelectOption(gate, video.Checkpoint, selectedOption); err != nil {
		return nil, nil, err
	}
	result, err := s.manager.Submit(gate, video.Checkpoint)
	if err != nil {
		return nil, nil, err
	}

	if result.Completed && result.Passed {
		// Ledger first. If this fails the attempt stays unresolved and the
		// student retries from ACTIVE, which the gate explicitly allows.
		if err := s.Progress.MarkVideoCompleted(ctx, studentID, videoID, video.CourseID, true); err != nil {
			return nil, nil, err
		}
	}

	s.applyGate(attempt, gate)
	if result.Completed {
		attempt.CompletedAt = time.Now()
	}
	if err := s.AttemptRepo.Upsert(ctx, attempt); err != nil {
		return nil, nil, apperr.Persistence("save quiz attempt", err)
	}

	if result.Completed && s.Publisher != nil {
		s.Publisher.Publish(event.QuizCompleted, map[string]interface{}{
			"student_id": studentID,
			"video_id":   videoID,
			"passed":     result.Passed,
		})
	}

	return result, s.statusView(video, attempt, gate), nil
}

// GateStatus is the pure query the presentation layer may re-request at
// any time.
func (s *QuizService) GateStatus(ctx context.Context, studentID, videoID string) (*GateStatusView, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}

	video, err := s.CourseRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("video " + videoID)
		}
		return nil, apperr.Persistence("find video", err)
	}
	if video.Checkpoint == nil {
		return &GateStatusView{VideoID: videoID, Phase: models.PhaseInactive}, nil
	}

	attempt, err := s.AttemptRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &GateStatusView{
				VideoID:       videoID,
				HasCheckpoint: true,
				Phase:         models.PhaseInactive,
				QuestionCount: len(video.Checkpoint.Questions),
			}, nil
		}
		return nil, apperr.Persistence("find quiz attempt", err)
	}

	gate := s.reconstructGate(attempt, video.Checkpoint)
	return s.statusView(video, attempt, gate), nil
}

// IsBlocking reports whether the gate currently suspends the surrounding
// UI for this student and video.
func (s *QuizService) IsBlocking(ctx context.Context, studentID, videoID string) (bool, error) {
	attempt, err := s.AttemptRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, apperr.Persistence("find quiz attempt", err)
	}
	return attempt.IsBlocking(), nil
}

// GateFacts returns the per-video gate-open map the unlock policy consumes.
func (s *QuizService) GateFacts(ctx context.Context, studentID, courseID string) (map[string]bool, error) {
	attempts, err := s.AttemptRepo.FindByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, apperr.Persistence("find quiz attempts", err)
	}
	facts := make(map[string]bool, len(attempts))
	for videoID, a := range attempts {
		facts[videoID] = a.IsBlocking()
	}
	return facts, nil
}

func (s *QuizService) loadOrNewAttempt(ctx context.Context, studentID string, video *models.Video) (*models.QuizAttemptState, error) {
	attempt, err := s.AttemptRepo.FindByStudentVideo(ctx, studentID, video.ID)
	if err == nil {
		return attempt, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, apperr.Persistence("find quiz attempt", err)
	}
	return &models.QuizAttemptState{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		VideoID:         video.ID,
		CourseID:        video.CourseID,
		Phase:           models.PhaseInactive,
		SelectedOption:  quizgate.NoSelection,
		CurrentQuestion: 0,
	}, nil
}

// reconstructGate rebuilds the in-memory gate from the durable record.
// A started-but-uncompleted attempt whose volatile sub-state no longer
// matches the checkpoint re-enters at ACTIVE from the first question; only
// started/completed and the outcomes are authoritative.
func (s *QuizService) reconstructGate(attempt *models.QuizAttemptState, cp *models.QuizCheckpoint) *quizgate.GateState {
	gate := quizgate.NewGateState(attempt.VideoID, len(cp.Questions))

	if !attempt.QuizStarted {
		return gate
	}

	if attempt.QuizCompleted {
		if attempt.Passed {
			gate.State = quizgate.StatePassed
		} else {
			gate.State = quizgate.StateExhausted
		}
		gate.CurrentQuestion = len(cp.Questions) - 1
		copyOutcomes(gate, attempt)
		return gate
	}

	if len(attempt.Outcomes) != len(cp.Questions) ||
		attempt.CurrentQuestion < 0 || attempt.CurrentQuestion >= len(cp.Questions) {
		// Checkpoint changed under the attempt: restart the sequence.
		gate.State = quizgate.StateActive
		return gate
	}

	copyOutcomes(gate, attempt)
	gate.CurrentQuestion = attempt.CurrentQuestion
	gate.SelectedOption = attempt.SelectedOption
	gate.ReinforcementIndex = attempt.ReinforcementIndex
	gate.ReinforcementAttempts = attempt.ReinforcementAttempts

	switch attempt.Phase {
	case models.PhaseAnswering:
		gate.State = quizgate.StateAnswering
	case models.PhaseReinforcement:
		if attempt.ReinforcementIndex >= 0 && attempt.ReinforcementIndex < models.ReinforcementPerQuestion {
			gate.State = quizgate.StateReinforcement
		} else {
			gate.State = quizgate.StateActive
			gate.SelectedOption = quizgate.NoSelection
		}
	default:
		gate.State = quizgate.StateActive
		gate.SelectedOption = quizgate.NoSelection
	}
	return gate
}

func copyOutcomes(gate *quizgate.GateState, attempt *models.QuizAttemptState) {
	for i, o := range attempt.Outcomes {
		if i >= len(gate.Questions) {
			break
		}
		gate.Questions[i] = quizgate.QuestionStatus{
			Satisfied:          o.Satisfied,
			Correct:            o.Correct,
			ViaReinforcement:   o.ViaReinforcement,
			MaxAttemptsReached: o.MaxAttemptsReached,
		}
	}
}

// applyGate writes the in-memory gate back onto the durable record.
func (s *QuizService) applyGate(attempt *models.QuizAttemptState, gate *quizgate.GateState) {
	attempt.QuizStarted = gate.Started()
	attempt.QuizCompleted = gate.Completed()
	attempt.Passed = gate.State == quizgate.StatePassed
	attempt.Phase = string(gate.State)
	attempt.CurrentQuestion = gate.CurrentQuestion
	attempt.SelectedOption = gate.SelectedOption
	attempt.ReinforcementIndex = gate.ReinforcementIndex
	attempt.ReinforcementAttempts = gate.ReinforcementAttempts

	outcomes := make([]models.QuestionOutcome, len(gate.Questions))
	for i, qs := range gate.Questions {
		outcomes[i] = models.QuestionOutcome{
			Satisfied:          qs.Satisfied,
			Correct:            qs.Correct,
			ViaReinforcement:   qs.ViaReinforcement,
			MaxAttemptsReached: qs.MaxAttemptsReached,
		}
	}
	attempt.Outcomes = outcomes
}

func (s *QuizService) statusView(video *models.Video, attempt *models.QuizAttemptState, gate *quizgate.GateState) *GateStatusView {
	view := &GateStatusView{
		VideoID:       video.ID,
		HasCheckpoint: true,
		Blocking:      gate.IsBlocking(),
		Phase:         string(gate.State),
		QuizStarted:   gate.Started(),
		QuizCompleted: gate.Completed(),
		Passed:        gate.State == quizgate.StatePassed,
		QuestionCount: len(video.Checkpoint.Questions),
	}

	if !gate.IsBlocking() {
		return view
	}

	q := video.Checkpoint.Questions[gate.CurrentQuestion]
	if gate.State == quizgate.StateReinforcement {
		rq := q.Reinforcement[gate.ReinforcementIndex]
		view.CurrentQuestion = &QuestionView{
			Kind:    "reinforcement",
			Index:   gate.CurrentQuestion,
			Content: rq.Content,
			Options: rq.Options,
		}
	} else {
		view.CurrentQuestion = &QuestionView{
			Kind:    "primary",
			Index:   gate.CurrentQuestion,
			Content: q.Content,
			Options: q.Options,
		}
	}
	return view
}
