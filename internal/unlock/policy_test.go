package unlock

import (
	"testing"

	"learning-service/internal/models"
)

func courseVideos(n int) []models.Video {
	videos := make([]models.Video, n)
	for i := range videos {
		videos[i] = models.Video{
			ID:       string(rune('a' + i)),
			CourseID: "course-1",
			Position: i,
		}
	}
	return videos
}

func TestEmptyCourseYieldsEmptyMap(t *testing.T) {
	result := ComputeMap(nil, nil, nil, true)
	if len(result) != 0 {
		t.Errorf("expected empty map, got %d entries", len(result))
	}
}

func TestFirstVideoAlwaysUnlocked(t *testing.T) {
	videos := courseVideos(3)

	for _, enrolled := range []bool{true, false} {
		result := ComputeMap(videos, nil, nil, enrolled)
		if !result["a"].Unlocked {
			t.Errorf("enrolled=%v: expected position 0 unlocked", enrolled)
		}
	}

	// Unenrolled students get exactly the preview.
	result := ComputeMap(videos, nil, nil, false)
	if result["a"].Reason != ReasonPreview {
		t.Errorf("expected preview reason, got %s", result["a"].Reason)
	}
	for _, id := range []string{"b", "c"} {
		if result[id].Unlocked {
			t.Errorf("expected %s locked for unenrolled student", id)
		}
		if result[id].Reason != ReasonNotEnrolled {
			t.Errorf("expected not_enrolled reason for %s, got %s", id, result[id].Reason)
		}
	}
}

func TestSequentialUnlock(t *testing.T) {
	videos := courseVideos(3)

	testCases := []struct {
		name     string
		progress map[string]models.VideoProgress
		gates    map[string]GateFact
		expected map[string]bool
	}{
		{
			name:     "nothing watched",
			expected: map[string]bool{"a": true, "b": false, "c": false},
		},
		{
			name: "partial watch does not unlock",
			progress: map[string]models.VideoProgress{
				"a": {VideoID: "a", WatchedPercent: 50},
			},
			expected: map[string]bool{"a": true, "b": false, "c": false},
		},
		{
			name: "completed predecessor unlocks next",
			progress: map[string]models.VideoProgress{
				"a": {VideoID: "a", WatchedPercent: 100, Completed: true},
			},
			expected: map[string]bool{"a": true, "b": true, "c": false},
		},
		{
			name: "open gate holds the next video locked",
			progress: map[string]models.VideoProgress{
				"a": {VideoID: "a", WatchedPercent: 100, Completed: true},
			},
			gates:    map[string]GateFact{"a": {Open: true}},
			expected: map[string]bool{"a": true, "b": false, "c": false},
		},
		{
			name: "no skipping ahead",
			progress: map[string]models.VideoProgress{
				"b": {VideoID: "b", WatchedPercent: 100, Completed: true},
			},
			expected: map[string]bool{"a": true, "b": false, "c": false},
		},
		{
			name: "full completion unlocks everything",
			progress: map[string]models.VideoProgress{
				"a": {VideoID: "a", Completed: true},
				"b": {VideoID: "b", Completed: true},
			},
			expected: map[string]bool{"a": true, "b": true, "c": true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeMap(videos, tc.progress, tc.gates, true)
			for id, want := range tc.expected {
				if result[id].Unlocked != want {
					t.Errorf("video %s: unlocked = %v, want %v (reason %s)",
						id, result[id].Unlocked, want, result[id].Reason)
				}
			}
		})
	}
}

func TestUnlockNeverSkipsAnIncompletePredecessor(t *testing.T) {
	videos := courseVideos(5)

	// Everything completed except position 2.
	progress := map[string]models.VideoProgress{
		"a": {VideoID: "a", Completed: true},
		"b": {VideoID: "b", Completed: true},
		"d": {VideoID: "d", Completed: true},
	}
	result := ComputeMap(videos, progress, nil, true)

	for _, v := range videos {
		access := result[v.ID]
		if !access.Unlocked {
			continue
		}
		if v.Position == 0 {
			continue
		}
		prevID := string(rune('a' + v.Position - 1))
		prev, ok := progress[prevID]
		if !ok || !prev.Completed {
			t.Errorf("video %s unlocked without completed predecessor %s", v.ID, prevID)
		}
	}
	if result["d"].Unlocked || result["e"].Unlocked {
		t.Error("videos past the gap must stay locked")
	}
}

func TestUnorderedInputIsSortedByPosition(t *testing.T) {
	videos := []models.Video{
		{ID: "c", Position: 2},
		{ID: "a", Position: 0},
		{ID: "b", Position: 1},
	}
	progress := map[string]models.VideoProgress{
		"a": {VideoID: "a", Completed: true},
	}
	result := ComputeMap(videos, progress, nil, true)
	if !result["a"].Unlocked || !result["b"].Unlocked || result["c"].Unlocked {
		t.Errorf("unexpected map: %+v", result)
	}
}

// The worked example: three videos, a checkpoint quiz on the first.
func TestCheckpointScenario(t *testing.T) {
	videos := courseVideos(3)

	// 50% watched, no quiz yet.
	progress := map[string]models.VideoProgress{
		"a": {VideoID: "a", WatchedPercent: 50},
	}
	result := ComputeMap(videos, progress, nil, true)
	if !result["a"].Unlocked || result["b"].Unlocked || result["c"].Unlocked {
		t.Fatalf("before quiz: unexpected map %+v", result)
	}

	// Gate opened at the checkpoint; still only the first video playable.
	gates := map[string]GateFact{"a": {Open: true}}
	result = ComputeMap(videos, progress, gates, true)
	if result["b"].Unlocked {
		t.Error("open gate on video 0 must keep video 1 locked")
	}

	// Quiz passed: gate closed, video completed.
	progress["a"] = models.VideoProgress{VideoID: "a", WatchedPercent: 50, Completed: true}
	gates["a"] = GateFact{Open: false}
	result = ComputeMap(videos, progress, gates, true)
	if !result["b"].Unlocked {
		t.Error("expected video 1 unlocked after quiz pass")
	}
	if result["c"].Unlocked {
		t.Error("video 2 must stay locked")
	}
}
