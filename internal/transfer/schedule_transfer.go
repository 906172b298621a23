package transfer

import (
	"time"

	"github.com/postpilothq/postpilot/internal/scheduler"
)

// SchedulePostRequest is the body for creating a single scheduled post.
type SchedulePostRequest struct {
	ContentID     string            `json:"content_id"`
	Platform      string            `json:"platform"`
	ScheduledTime time.Time         `json:"scheduled_time"`
	Status        string            `json:"status,omitempty"`
	ContentType   string            `json:"content_type,omitempty"`
	Caption       string            `json:"caption,omitempty"`
	MediaURLs     []string          `json:"media_urls,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type BulkScheduleRequest struct {
	Posts []SchedulePostRequest `json:"posts"`
}

// ScheduledPostUpdate carries a partial update. Nil pointers mean "leave as is".
type ScheduledPostUpdate struct {
	ScheduledTime *time.Time         `json:"scheduled_time,omitempty"`
	Status        *string            `json:"status,omitempty"`
	ContentType   *string            `json:"content_type,omitempty"`
	Caption       *string            `json:"caption,omitempty"`
	MediaURLs     *[]string          `json:"media_urls,omitempty"`
	Tags          *[]string          `json:"tags,omitempty"`
	Metadata      *map[string]string `json:"metadata,omitempty"`
}

// ScheduleSummary aggregates a user's scheduled posts.
type ScheduleSummary struct {
	Total      int            `json:"total"`
	ByPlatform map[string]int `json:"by_platform"`
	ByStatus   map[string]int `json:"by_status"`
	Upcoming   int            `json:"upcoming"`
}

// GenerateScheduleRequest is the body for the batch planning endpoint.
// Commit controls whether accepted entries are written as scheduled posts.
type GenerateScheduleRequest struct {
	Config scheduler.Config        `json:"config"`
	Items  []scheduler.ContentItem `json:"items"`
	Commit bool                    `json:"commit,omitempty"`
}

// OptimalTimeRequest is the body for the single-slot planning endpoint.
type OptimalTimeRequest struct {
	Platform  string            `json:"platform"`
	AfterTime time.Time         `json:"after_time"`
	Config    *scheduler.Config `json:"config,omitempty"`
}
