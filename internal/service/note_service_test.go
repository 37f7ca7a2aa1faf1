package service

import (
	"errors"
	"testing"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestCarryCreatedAtPreservesOriginal(t *testing.T) {
	origin := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := &models.Note{CreatedAt: origin}
	note := &models.Note{CreatedAt: time.Now()}

	if err := carryCreatedAt(note, existing, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !note.CreatedAt.Equal(origin) {
		t.Error("re-save must keep the original creation time")
	}
}

func TestCarryCreatedAtMissStartsFresh(t *testing.T) {
	now := time.Now()
	note := &models.Note{CreatedAt: now}

	if err := carryCreatedAt(note, nil, mongo.ErrNoDocuments); err != nil {
		t.Fatalf("a miss is not an error: %v", err)
	}
	if !note.CreatedAt.Equal(now) {
		t.Error("new note must keep its own creation time")
	}
}

func TestCarryCreatedAtSurfacesStoreFailures(t *testing.T) {
	note := &models.Note{CreatedAt: time.Now()}
	err := carryCreatedAt(note, nil, errors.New("connection reset"))
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Errorf("store failure must surface as a persistence error, got %v", err)
	}
}
