package service

import (
	"math"
	"strings"
	"testing"

	"learning-service/internal/repository"
)

func TestSplitIntoChunksRespectsSizeAndKeepsWords(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 40)
	chunks := splitIntoChunks(text, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	var rejoined []string
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d exceeds max size: %d chars", i, len(chunk))
		}
		rejoined = append(rejoined, chunk)
	}
	if strings.Join(rejoined, " ") != strings.TrimSpace(text) {
		t.Error("chunks do not reassemble into the original text")
	}
}

func TestSplitIntoChunksEmptyTranscript(t *testing.T) {
	if chunks := splitIntoChunks("", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplitIntoChunksOversizedWord(t *testing.T) {
	word := strings.Repeat("x", 300)
	chunks := splitIntoChunks("short "+word+" tail", 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1] != word {
		t.Error("oversized word should occupy its own chunk")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankChunksReturnsMostSimilarFirst(t *testing.T) {
	chunks := []repository.TranscriptChunk{
		{Content: "far", Vector: []float64{0, 1}},
		{Content: "near", Vector: []float64{1, 0.1}},
		{Content: "exact", Vector: []float64{1, 0}},
		{Content: "unembedded"},
	}
	query := []float64{1, 0}

	got := rankChunks(chunks, query, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0] != "exact" || got[1] != "near" {
		t.Errorf("ranking wrong: %v", got)
	}
}

func TestRankChunksTopKLargerThanPool(t *testing.T) {
	chunks := []repository.TranscriptChunk{{Content: "only", Vector: []float64{1}}}
	got := rankChunks(chunks, []float64{1}, 5)
	if len(got) != 1 {
		t.Errorf("expected 1 passage, got %d", len(got))
	}
}

func TestBuildPromptIncludesPassages(t *testing.T) {
	prompt := buildPrompt([]string{"first excerpt", "second excerpt"})
	if !strings.Contains(prompt, "first excerpt") || !strings.Contains(prompt, "second excerpt") {
		t.Error("prompt missing retrieved passages")
	}

	bare := buildPrompt(nil)
	if strings.Contains(bare, "TRANSCRIPT EXCERPTS") {
		t.Error("prompt should omit excerpt section when retrieval is empty")
	}
}
