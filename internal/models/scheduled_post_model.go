package models

import "time"

// ScheduledPost is one planned publication of a content item on a platform.
type ScheduledPost struct {
	ID            int64             `db:"id" json:"id"`
	UserID        int64             `db:"user_id" json:"user_id"`
	ContentID     string            `db:"content_id" json:"content_id"`
	Platform      string            `db:"platform" json:"platform"`
	ScheduledTime time.Time         `db:"scheduled_time" json:"scheduled_time"`
	Status        string            `db:"status" json:"status"` // draft, scheduled, posted, failed, cancelled
	ContentType   string            `db:"content_type" json:"content_type,omitempty"`
	Caption       string            `db:"caption" json:"caption,omitempty"`
	MediaURLs     []string          `db:"media_urls" json:"media_urls,omitempty"`
	Tags          []string          `db:"tags" json:"tags,omitempty"`
	Metadata      map[string]string `db:"metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
	PostStatusCancelled = "cancelled"
)

// IsTerminalStatus reports whether a status permits no further transitions.
// A terminal post keeps its scheduled time forever.
func IsTerminalStatus(status string) bool {
	switch status {
	case PostStatusPosted, PostStatusFailed, PostStatusCancelled:
		return true
	}
	return false
}

const (
	PlatformInstagram = "instagram"
	PlatformTiktok    = "tiktok"
	PlatformYoutube   = "youtube"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformLinkedin  = "linkedin"
)

var SupportedPlatforms = []string{
	PlatformInstagram,
	PlatformTiktok,
	PlatformYoutube,
	PlatformTwitter,
	PlatformFacebook,
	PlatformLinkedin,
}

func IsSupportedPlatform(platform string) bool {
	for _, p := range SupportedPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}
