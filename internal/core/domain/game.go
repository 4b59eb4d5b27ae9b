package domain

import "time"

// GameStatus represents the lifecycle state of a game listing.
type GameStatus string

const (
	StatusPending  GameStatus = "pending"
	StatusApproved GameStatus = "approved"
	StatusRejected GameStatus = "rejected"
)

// validTransitions defines the allowed listing state machine transitions.
// Approval and rejection are terminal; a resubmission is a new listing.
var validTransitions = map[GameStatus][]GameStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DownloadKind distinguishes builds uploaded through the asset store from
// externally hosted links.
type DownloadKind string

const (
	DownloadFile DownloadKind = "file"
	DownloadLink DownloadKind = "link"
)

// Game is a developer-submitted listing with an approval lifecycle.
type Game struct {
	ID             string   `json:"id" bson:"_id,omitempty"`
	Title          string   `json:"title" bson:"title"`
	Description    string   `json:"description" bson:"description"`
	Genre          string   `json:"genre" bson:"genre"`
	Price          float64  `json:"price" bson:"price"`
	Requirements   string   `json:"requirements,omitempty" bson:"requirements,omitempty"`
	CoverRef       string   `json:"cover_ref" bson:"cover_ref"`
	ScreenshotRefs []string `json:"screenshot_refs,omitempty" bson:"screenshot_refs,omitempty"`
	TrailerRef     string   `json:"trailer_ref,omitempty" bson:"trailer_ref,omitempty"`

	DownloadKind DownloadKind `json:"download_kind" bson:"download_kind"`
	BuildRef     string       `json:"build_ref" bson:"build_ref"`
	SizeMB       float64      `json:"size_mb,omitempty" bson:"size_mb,omitempty"`

	Status          GameStatus `json:"status" bson:"status"`
	DeveloperID     string     `json:"developer_id" bson:"developer_id"`
	ReviewedByID    string     `json:"reviewed_by_id,omitempty" bson:"reviewed_by_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`

	TotalDownloads int64 `json:"total_downloads" bson:"total_downloads"`
	TotalSales     int64 `json:"total_sales" bson:"total_sales"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Free reports whether the listing can be claimed without payment.
func (g *Game) Free() bool {
	return g.Price == 0
}
