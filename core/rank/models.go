package rank

import "time"

// Badge is the presentation tier derived from a ranking position.
type Badge string

const (
	BadgeGold   Badge = "gold"
	BadgeSilver Badge = "silver"
	BadgeNone   Badge = ""
)

// BadgeForPosition maps a 1-based position to its badge tier:
// 1 is gold, 2-3 are silver, 4 and below get none.
func BadgeForPosition(position int) Badge {
	switch {
	case position == 1:
		return BadgeGold
	case position == 2 || position == 3:
		return BadgeSilver
	default:
		return BadgeNone
	}
}

// RecentCompletion is one of a user's latest completions shown on the board.
type RecentCompletion struct {
	Title          string        `json:"title"`
	CompletedAt    time.Time     `json:"completed_at"`
	CompletionTime time.Duration `json:"completion_time"`
}

// Entry is one student's aggregated standing within a unit's leaderboard.
type Entry struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`

	// Position is the 1-based rank within this unit; OverallRank is the
	// cached cross-unit standing carried on the user, read-only here.
	Position    int   `json:"position"`
	Badge       Badge `json:"badge,omitempty"`
	OverallRank *int  `json:"overall_rank"`

	AverageCompletionTime time.Duration      `json:"average_completion_time"`
	CompletedAssignments  int                `json:"completed_assignments"`
	RecentCompletions     []RecentCompletion `json:"recent_completions"`
}
