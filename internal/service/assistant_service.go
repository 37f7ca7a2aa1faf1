package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"learning-service/internal/apperr"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	transcriptChunkSize = 500
	retrievalTopK       = 3
)

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
	Stream   bool                    `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// AssistantAnswer is the assistant's reply plus the transcript passages it
// was grounded on.
type AssistantAnswer struct {
	Answer    string    `json:"answer"`
	Passages  []string  `json:"passages,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AssistantService answers student questions about a video using transcript
// retrieval: chunks are embedded through an HTTP embedding endpoint, stored
// with their vectors in Mongo, ranked by cosine similarity, and fed to an
// OpenAI-compatible chat completion. Both remote calls are black boxes;
// their failures surface as errors and touch no ledger or gate state.
type AssistantService struct {
	TranscriptRepo   *repository.TranscriptRepository
	CourseRepo       *repository.CourseRepository
	Quiz             *QuizService
	Client           *http.Client
	EmbeddingBaseURL string
	EmbeddingModel   string
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModel         string
}

func NewAssistantService(
	transcriptRepo *repository.TranscriptRepository,
	courseRepo *repository.CourseRepository,
	quiz *QuizService,
	embeddingBaseURL, embeddingModel, llmBaseURL, llmAPIKey, llmModel string,
) *AssistantService {
	return &AssistantService{
		TranscriptRepo:   transcriptRepo,
		CourseRepo:       courseRepo,
		Quiz:             quiz,
		Client:           &http.Client{Timeout: 120 * time.Second},
		EmbeddingBaseURL: embeddingBaseURL,
		EmbeddingModel:   embeddingModel,
		LLMBaseURL:       llmBaseURL,
		LLMAPIKey:        llmAPIKey,
		LLMModel:         llmModel,
	}
}

// IndexTranscript re-embeds a video's transcript. Called from the admin
// path after a sync; replaces whatever chunks were stored before.
func (s *AssistantService) IndexTranscript(ctx context.Context, videoID string) (int, error) {
	video, err := s.CourseRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, apperr.NotFound("video " + videoID)
		}
		return 0, apperr.Persistence("find video", err)
	}
	if video.Transcript == "" {
		return 0, apperr.NotFound("transcript for video " + videoID)
	}

	if err := s.TranscriptRepo.DeleteByVideo(ctx, videoID); err != nil {
		return 0, apperr.Persistence("clear transcript chunks", err)
	}

	chunks := splitIntoChunks(video.Transcript, transcriptChunkSize)
	for i, chunk := range chunks {
		vector, err := s.generateEmbedding(chunk)
		if err != nil {
			return i, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		doc := &repository.TranscriptChunk{
			VideoID:   videoID,
			Index:     i,
			Content:   chunk,
			Vector:    vector,
			CreatedAt: time.Now(),
		}
		if err := s.TranscriptRepo.Upsert(ctx, doc); err != nil {
			return i, apperr.Persistence("save transcript chunk", err)
		}
	}
	return len(chunks), nil
}

// Ask answers a question about a video. Refused while the video's quiz
// gate is open, mirroring the blurred assistant panel.
func (s *AssistantService) Ask(ctx context.Context, studentID, videoID, question string) (*AssistantAnswer, error) {
	if studentID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	blocking, err := s.Quiz.IsBlocking(ctx, studentID, videoID)
	if err != nil {
		return nil, err
	}
	if blocking {
		return nil, apperr.InvalidTransition("assistant is locked while the quiz is open")
	}

	chunks, err := s.TranscriptRepo.FindByVideo(ctx, videoID)
	if err != nil {
		return nil, apperr.Persistence("find transcript chunks", err)
	}

	var passages []string
	if len(chunks) > 0 {
		queryVector, err := s.generateEmbedding(question)
		if err != nil {
			// Retrieval is best effort; answer without grounding.
			passages = nil
		} else {
			passages = rankChunks(chunks, queryVector, retrievalTopK)
		}
	}

	prompt := buildPrompt(passages)
	response, err := s.sendChatRequest(chatCompletionRequest{
		Model: s.LLMModel,
		Messages: []chatCompletionMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("assistant unavailable: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("assistant returned no choices")
	}

	return &AssistantAnswer{
		Answer:    response.Choices[0].Message.Content,
		Passages:  passages,
		Timestamp: time.Now(),
	}, nil
}

func (s *AssistantService) generateEmbedding(text string) ([]float64, error) {
	body, err := json.Marshal(embeddingRequest{Model: s.EmbeddingModel, Prompt: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", s.EmbeddingBaseURL+"/embeddings", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(raw, &embResp); err != nil {
		return nil, err
	}
	return embResp.Embedding, nil
}

func (s *AssistantService) sendChatRequest(request chatCompletionRequest) (*chatCompletionResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", strings.TrimSuffix(s.LLMBaseURL, "/")+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.LLMAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.LLMAPIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("LLM API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func buildPrompt(passages []string) string {
	var parts []string
	parts = append(parts, "You are a teaching assistant for a video course. Answer using the lesson transcript when possible, and say so when the transcript does not cover the question.")
	if len(passages) > 0 {
		parts = append(parts, "\n=== TRANSCRIPT EXCERPTS ===")
		for i, p := range passages {
			parts = append(parts, fmt.Sprintf("\n[Excerpt %d]:\n%s", i+1, p))
		}
	}
	return strings.Join(parts, "\n")
}

func splitIntoChunks(text string, maxChunkSize int) []string {
	words := strings.Fields(text)
	var chunks []string
	var current []string
	size := 0

	for _, word := range words {
		if size+len(word)+1 > maxChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			size = len(word)
		} else {
			current = append(current, word)
			size += len(word) + 1
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func rankChunks(chunks []repository.TranscriptChunk, queryVector []float64, topK int) []string {
	type scored struct {
		content string
		score   float64
	}
	var ranked []scored
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			continue
		}
		ranked = append(ranked, scored{content: c.Content, score: cosineSimilarity(queryVector, c.Vector)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if topK > len(ranked) {
		topK = len(ranked)
	}
	result := make([]string, 0, topK)
	for i := 0; i < topK; i++ {
		result = append(result, ranked[i].content)
	}
	return result
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
