package inquiry

import (
	"fmt"
	"net/url"
	"time"
)

// Status is the triage state of an inquiry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

// Priority orders inquiries for triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Inquiry is a buyer's question about one artwork.
type Inquiry struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Message         string     `json:"message"`
	ArtworkID       string     `json:"artworkId,omitempty"`
	ArtworkTitle    string     `json:"artworkTitle,omitempty"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	Archived        bool       `json:"archived"`
	Tags            []string   `json:"tags,omitempty"`
	AdminNote       string     `json:"adminNote,omitempty"`
	FollowUpDate    *time.Time `json:"followUpDate,omitempty"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateInput carries a public "inquire about artwork" submission.
type CreateInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Message      string `json:"message" validate:"required,max=5000"`
	ArtworkID    string `json:"artworkId,omitempty"`
	ArtworkTitle string `json:"artworkTitle,omitempty" validate:"max=300"`
}

// ListFilter narrows and orders the admin inquiry list.
type ListFilter struct {
	Status   Status
	Priority Priority
	Archived *bool
	Sort     string
}

func (f ListFilter) values() url.Values {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		query.Set("priority", string(f.Priority))
	}
	if f.Archived != nil {
		query.Set("archived", fmt.Sprintf("%t", *f.Archived))
	}
	if f.Sort != "" {
		query.Set("sort", f.Sort)
	}
	return query
}

func (f ListFilter) cacheParams() map[string]string {
	params := map[string]string{}
	for name, vals := range f.values() {
		params[name] = vals[0]
	}
	return params
}

// BulkActionName is one of the supported batch operations.
type BulkActionName string

const (
	BulkDelete       BulkActionName = "delete"
	BulkUpdateStatus BulkActionName = "update-status"
	BulkArchive      BulkActionName = "archive"
)

// BulkActionInput applies one action to a set of inquiries in a single
// network call.
type BulkActionInput struct {
	Action BulkActionName `json:"action" validate:"required,oneof=delete update-status archive"`
	IDs    []string       `json:"ids" validate:"required,min=1"`
	Status Status         `json:"status,omitempty" validate:"required_if=Action update-status,omitempty,oneof=pending contacted closed"`
}

// BulkActionResult reports how many records the server touched.
type BulkActionResult struct {
	Affected int `json:"affected"`
}

// Stats is the triage summary shown on the admin dashboard.
type Stats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Contacted    int `json:"contacted"`
	Closed       int `json:"closed"`
	HighPriority int `json:"highPriority"`
	Archived     int `json:"archived"`
}

// ExportFilename names a CSV download after the day it was taken.
func ExportFilename(now time.Time) string {
	return "inquiries-" + now.Format("2006-01-02") + ".csv"
}

type detailEnvelope struct {
	Inquiry Inquiry `json:"inquiry"`
}

type listEnvelope struct {
	Inquiries []Inquiry `json:"inquiries"`
	Total     int       `json:"total"`
}

type statsEnvelope struct {
	Stats Stats `json:"stats"`
}
