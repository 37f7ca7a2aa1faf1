package service

import (
	"context"
	"fmt"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type NoteService struct {
	NoteRepo  *repository.NoteRepository
	Quiz      *QuizService
	Publisher *event.EventPublisher
}

func NewNoteService(noteRepo *repository.NoteRepository, quiz *QuizService, publisher *event.EventPublisher) *NoteService {
	return &NoteService{NoteRepo: noteRepo, Quiz: quiz, Publisher: publisher}
}

// SaveNote upserts the student's one note for a video. Refused while the
// video's quiz gate is open: the blocking predicate is enforced here, not
// just blurred in the UI.
func (s *NoteService) SaveNote(ctx context.Context, studentID, videoID, title, content string, tags []string) (*models.Note, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if content == "" {
		return nil, fmt.Errorf("note content is required")
	}

	blocking, err := s.Quiz.IsBlocking(ctx, studentID, videoID)
	if err != nil {
		return nil, err
	}
	if blocking {
		return nil, apperr.InvalidTransition("notes are locked while the quiz is open")
	}

	now := time.Now()
	note := &models.Note{
		StudentID: studentID,
		VideoID:   videoID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	existing, err := s.NoteRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err := carryCreatedAt(note, existing, err); err != nil {
		return nil, err
	}

	if err := s.NoteRepo.Upsert(ctx, note); err != nil {
		return nil, apperr.Persistence("save note", err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.NoteSaved, map[string]string{
			"student_id": studentID,
			"video_id":   videoID,
		})
	}
	return note, nil
}

// carryCreatedAt preserves the original creation time on re-save. Only a
// confirmed miss counts as a new note; a store failure surfaces instead of
// resetting the timestamp.
func carryCreatedAt(note *models.Note, existing *models.Note, findErr error) error {
	if findErr == nil {
		note.CreatedAt = existing.CreatedAt
		return nil
	}
	if findErr == mongo.ErrNoDocuments {
		return nil
	}
	return apperr.Persistence("find note", findErr)
}

func (s *NoteService) GetNote(ctx context.Context, studentID, videoID string) (*models.Note, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}
	note, err := s.NoteRepo.FindByStudentVideo(ctx, studentID, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("note")
		}
		return nil, apperr.Persistence("find note", err)
	}
	return note, nil
}

func (s *NoteService) ListNotes(ctx context.Context, studentID string) ([]models.Note, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}
	notes, err := s.NoteRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Persistence("find notes", err)
	}
	return notes, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, studentID, videoID string) error {
	if studentID == "" {
		return apperr.ErrUnauthorized
	}
	if err := s.NoteRepo.Delete(ctx, studentID, videoID); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("note")
		}
		return apperr.Persistence("delete note", err)
	}
	return nil
}
