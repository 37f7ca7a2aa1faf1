package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TranscriptChunk is one embedded slice of a video transcript, retrieved by
// vector similarity when the assistant answers a question.
type TranscriptChunk struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	VideoID   string    `bson:"video_id" json:"video_id"`
	Index     int       `bson:"index" json:"index"`
	Content   string    `bson:"content" json:"content"`
	Vector    []float64 `bson:"vector" json:"vector"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type TranscriptRepository struct {
	Col *mongo.Collection
}

func NewTranscriptRepository(db *mongo.Database) *TranscriptRepository {
	return &TranscriptRepository{Col: db.Collection("transcript_vectors")}
}

func (r *TranscriptRepository) Upsert(ctx context.Context, chunk *TranscriptChunk) error {
	chunk.ID = fmt.Sprintf("%s_chunk_%d", chunk.VideoID, chunk.Index)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": chunk.ID}, chunk, options.Replace().SetUpsert(true))
	return err
}

func (r *TranscriptRepository) FindByVideo(ctx context.Context, videoID string) ([]TranscriptChunk, error) {
	cur, err := r.Col.Find(ctx, bson.M{"video_id": videoID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var chunks []TranscriptChunk
	if err := cur.All(ctx, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *TranscriptRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"video_id": videoID})
	return err
}
