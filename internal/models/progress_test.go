package models

import (
	"testing"
)

func TestApplyReportLatchesCompletion(t *testing.T) {
	progress := &VideoProgress{StudentID: "s1", VideoID: "v1"}

	if flipped := progress.ApplyReport(50, DefaultCompletionThreshold); flipped {
		t.Error("50% must not complete")
	}
	if progress.Completed {
		t.Error("unexpected completion at 50%")
	}

	if flipped := progress.ApplyReport(96, DefaultCompletionThreshold); !flipped {
		t.Error("expected completion to flip at 96%")
	}

	// Backward seek: raw percent regresses, completion does not.
	if flipped := progress.ApplyReport(20, DefaultCompletionThreshold); flipped {
		t.Error("already-complete record must not flip again")
	}
	if progress.WatchedPercent != 20 {
		t.Errorf("expected watched percent to follow the player, got %.1f", progress.WatchedPercent)
	}
	if !progress.Completed {
		t.Error("completed flag regressed on backward seek")
	}

	// Re-crossing the threshold later is a no-op on the flag.
	if flipped := progress.ApplyReport(100, DefaultCompletionThreshold); flipped {
		t.Error("completion reported as newly flipped twice")
	}
}

func TestApplyReportClampsPercent(t *testing.T) {
	testCases := []struct {
		name     string
		reported float64
		expected float64
	}{
		{"negative", -5, 0},
		{"over 100", 150, 100},
		{"in range", 42.5, 42.5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			progress := &VideoProgress{}
			progress.ApplyReport(tc.reported, DefaultCompletionThreshold)
			if progress.WatchedPercent != tc.expected {
				t.Errorf("expected %.1f, got %.1f", tc.expected, progress.WatchedPercent)
			}
		})
	}
}

func TestVideoProgressKeyIsStableAcrossWrites(t *testing.T) {
	progress := &VideoProgress{StudentID: "s1", VideoID: "v1"}
	key := progress.Key()

	progress.ApplyReport(96, DefaultCompletionThreshold)
	progress.MarkCompleted()
	if progress.Key() != key {
		t.Error("document key must not change between writes")
	}

	other := &VideoProgress{StudentID: "s2", VideoID: "v1"}
	if other.Key() == key {
		t.Error("different students must not share a progress key")
	}
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	progress := &VideoProgress{WatchedPercent: 50}
	if !progress.MarkCompleted() {
		t.Error("expected first mark to flip")
	}
	if progress.MarkCompleted() {
		t.Error("expected second mark to be a no-op")
	}
	if progress.WatchedPercent != 50 {
		t.Error("explicit completion must not touch watched percent")
	}
}

func TestEnrollmentRecalculate(t *testing.T) {
	testCases := []struct {
		name            string
		completed       int
		total           int
		expectPercent   int
		expectCompleted int
	}{
		{"zero of zero", 0, 0, 0, 0},
		{"zero of ten", 0, 10, 0, 0},
		{"one of three", 1, 3, 33, 1},
		{"two of three", 2, 3, 67, 2},
		{"all done", 10, 10, 100, 10},
		{"completed clamped to total", 5, 3, 100, 3},
		{"negative guarded", -1, 3, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enrollment := &CourseEnrollment{CompletionPercent: 999}
			enrollment.Recalculate(tc.completed, tc.total)
			if enrollment.CompletionPercent != tc.expectPercent {
				t.Errorf("expected %d%%, got %d%%", tc.expectPercent, enrollment.CompletionPercent)
			}
			if enrollment.CompletedLessons != tc.expectCompleted {
				t.Errorf("expected %d completed lessons, got %d", tc.expectCompleted, enrollment.CompletedLessons)
			}
			if enrollment.CompletedLessons > enrollment.TotalLessons {
				t.Error("invariant violated: completedLessons > totalLessons")
			}
		})
	}
}

func TestNoteKeyCollapsesDuplicates(t *testing.T) {
	first := &Note{StudentID: "s1", VideoID: "v1", Content: "draft"}
	second := &Note{StudentID: "s1", VideoID: "v1", Content: "final"}
	other := &Note{StudentID: "s2", VideoID: "v1"}

	if first.Key() != second.Key() {
		t.Error("same (student, video) must map to the same note key")
	}
	if first.Key() == other.Key() {
		t.Error("different students must not share a note key")
	}
}
