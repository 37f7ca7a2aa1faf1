// Package unlock derives which videos a student may play. The policy is a
// pure function over catalog and progress snapshots so the same computation
// can run on the server for every navigation attempt; stored lock flags and
// client caches are never authoritative.
package unlock

import (
	"sort"

	"learning-service/internal/models"
)

// Reasons reported alongside the lock decision.
const (
	ReasonFirstVideo           = "first_video"
	ReasonPreview              = "preview"
	ReasonNotEnrolled          = "not_enrolled"
	ReasonPredecessorComplete  = "predecessor_complete"
	ReasonPredecessorUnwatched = "predecessor_incomplete"
	ReasonPredecessorQuizOpen  = "predecessor_quiz_open"
)

// Access is the computed lock state for one video.
type Access struct {
	VideoID  string `json:"video_id"`
	Position int    `json:"position"`
	Unlocked bool   `json:"unlocked"`
	Reason   string `json:"reason"`
}

// GateFact is the slice of quiz-gate state the policy needs: whether the
// gate for a video is currently open (blocking).
type GateFact struct {
	Open bool
}

// ComputeMap derives the per-video lock map for one student.
//
// Position 0 is always unlocked: for enrolled students as the course start,
// for everyone else as the preview. Video n (n > 0) unlocks only when the
// video at position n-1 is completed and its quiz gate is not open. A
// missing predecessor progress record counts as incomplete.
func ComputeMap(videos []models.Video, progress map[string]models.VideoProgress, gates map[string]GateFact, enrolled bool) map[string]Access {
	result := make(map[string]Access, len(videos))
	if len(videos) == 0 {
		return result
	}

	ordered := make([]models.Video, len(videos))
	copy(ordered, videos)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	for i, v := range ordered {
		access := Access{VideoID: v.ID, Position: v.Position}

		if i == 0 {
			access.Unlocked = true
			if enrolled {
				access.Reason = ReasonFirstVideo
			} else {
				access.Reason = ReasonPreview
			}
			result[v.ID] = access
			continue
		}

		if !enrolled {
			access.Reason = ReasonNotEnrolled
			result[v.ID] = access
			continue
		}

		prev := ordered[i-1]
		prevProgress, ok := progress[prev.ID]
		if !ok || !prevProgress.Completed {
			access.Reason = ReasonPredecessorUnwatched
			result[v.ID] = access
			continue
		}
		if gates[prev.ID].Open {
			access.Reason = ReasonPredecessorQuizOpen
			result[v.ID] = access
			continue
		}

		access.Unlocked = true
		access.Reason = ReasonPredecessorComplete
		result[v.ID] = access
	}

	return result
}
