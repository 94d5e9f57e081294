package dto

import "time"

// CreateVersionRequest bumps one component of the semantic tuple
// (§6, `type∈{0,1,2}`).
type CreateVersionRequest struct {
	Type        int    `json:"type" validate:"gte=0,lte=2"`
	Description string `json:"description" validate:"required,min=1,max=256"`
}

// CreateVersionResponse returns the newly allocated identity.
type CreateVersionResponse struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// EditVersionRequest updates the free-text description only; state and
// numbering are never editable through this route.
type EditVersionRequest struct {
	ID          string `json:"id" validate:"required"`
	Description string `json:"description" validate:"required,min=1,max=256"`
}

// EditVersionResponse acknowledges the update.
type EditVersionResponse struct {
	Success bool `json:"success"`
}

// ProcessVersionRequest enqueues a publish job for the given version.
type ProcessVersionRequest struct {
	ID string `json:"id" validate:"required"`
}

// ProcessVersionResponse returns the job id the caller can poll.
type ProcessVersionResponse struct {
	JobID string `json:"jobId"`
}

// Version is the API-facing rendering of entities.Version.
type Version struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	FilesCount  int64     `json:"filesCount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListVersionsRequest is the query-string shape of the paginated listing
// route.
type ListVersionsRequest struct {
	Page int `query:"page" validate:"gte=0"`
	Size int `query:"size" validate:"gte=4,lte=50"`
}

// ListVersionsResponse is a page of versions plus the total row count.
type ListVersionsResponse struct {
	Items []Version `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}
