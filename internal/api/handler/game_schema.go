package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type submitGameRequest struct {
	Title          string   `json:"title"           validate:"required,max=120"`
	Description    string   `json:"description"     validate:"required"`
	Genre          string   `json:"genre"           validate:"required"`
	Price          float64  `json:"price"           validate:"gte=0"`
	Requirements   string   `json:"requirements"`
	CoverRef       string   `json:"cover_ref"       validate:"required"`
	ScreenshotRefs []string `json:"screenshot_refs"`
	TrailerRef     string   `json:"trailer_ref"`
	DownloadKind   string   `json:"download_kind"   validate:"required,oneof=file link"`
	BuildRef       string   `json:"build_ref"       validate:"required"`
	SizeMB         float64  `json:"size_mb"         validate:"gte=0"`
}

type reviewDecisionRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type gameLinks struct {
	Self    string `json:"self"`
	Reviews string `json:"reviews"`
}

type ratingResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type gameResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Genre           string         `json:"genre"`
	Price           float64        `json:"price"`
	Requirements    string         `json:"requirements,omitempty"`
	CoverRef        string         `json:"cover_ref"`
	ScreenshotRefs  []string       `json:"screenshot_refs,omitempty"`
	TrailerRef      string         `json:"trailer_ref,omitempty"`
	DownloadKind    string         `json:"download_kind"`
	SizeMB          float64        `json:"size_mb,omitempty"`
	Status          string         `json:"status"`
	DeveloperID     string         `json:"developer_id"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Rating          ratingResponse `json:"rating"`
	CreatedAt       time.Time      `json:"created_at"`
	Links           gameLinks      `json:"_links"`
}

// gameSummaryResponse is the lightweight item used in list responses.
// It intentionally omits description and requirements to keep payloads small.
type gameSummaryResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Genre           string         `json:"genre"`
	Price           float64        `json:"price"`
	CoverRef        string         `json:"cover_ref"`
	Status          string         `json:"status"`
	DeveloperID     string         `json:"developer_id"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Rating          ratingResponse `json:"rating"`
	CreatedAt       time.Time      `json:"created_at"`
	Links           gameLinks      `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listGamesResponse struct {
	Data       []gameSummaryResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}
