package api

import (
	"github.com/jonathanyeong/inkwell/internal/index"
	"github.com/jonathanyeong/inkwell/internal/models"
	"github.com/jonathanyeong/inkwell/internal/review"
)

// CreateEntryRequest is the request body for creating an entry.
type CreateEntryRequest struct {
	Content string `json:"content"`
}

// RateRequest is the request body for rating the current review entry.
type RateRequest struct {
	Rating  string `json:"rating"`            // fruitful | skip | unfruitful
	Content string `json:"content,omitempty"` // optional revised body
}

// EntryListResponse wraps paginated entry listings.
type EntryListResponse struct {
	Entries []index.EntryRow `json:"entries"`
	Total   int              `json:"total"`
}

// DueResponse wraps the due-entry listing.
type DueResponse struct {
	Entries []*models.EntryRecord `json:"entries"`
	Total   int                   `json:"total"`
}

// ReviewResponse describes the state of the review pass after an operation.
type ReviewResponse struct {
	Done     bool                `json:"done"`
	Entry    *models.EntryRecord `json:"entry,omitempty"`
	Progress *review.Progress    `json:"progress,omitempty"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}
