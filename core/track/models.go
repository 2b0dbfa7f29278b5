package track

import "time"

// ItemKind discriminates which content table a view record points into.
type ItemKind string

const (
	KindNote  ItemKind = "note"
	KindPaper ItemKind = "paper"
)

func (k ItemKind) Valid() bool {
	return k == KindNote || k == KindPaper
}

// ViewRecord is evidence a user has seen a note or past paper.
// Unique per (item, user); existence implies "viewed".
type ViewRecord struct {
	ItemID   string    `json:"item_id"`
	UserID   string    `json:"user_id"`
	Kind     ItemKind  `json:"kind"`
	ViewedAt time.Time `json:"viewed_at"` // UTC
}

// CompletionRecord is evidence a user finished a specific assignment.
// Unique per (assignment, user); CompletedAt is the FIRST completion time
// and is never overwritten.
type CompletionRecord struct {
	AssignmentID string    `json:"assignment_id"`
	UserID       string    `json:"user_id"`
	CompletedAt  time.Time `json:"completed_at"` // UTC
}
