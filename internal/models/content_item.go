package models

import "time"

// ContentItem is the schedulable unit of authored content. Media refs and
// platform ids live in junction tables; the slices here carry them in
// display order.
type ContentItem struct {
	ID          string     `db:"id" json:"id"`
	Caption     string     `db:"caption" json:"caption"`
	Title       string     `db:"title" json:"title"`
	MediaRefs   []string   `json:"media_refs"`
	PlatformIDs []string   `json:"platform_ids"`
	Status      string     `db:"status" json:"status"` // draft, scheduled, published
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

const (
	TitleLimit    = 50
	TitleFallback = "Untitled"
)

// TitleFor derives the display title from a caption. The title is a cache of
// the caption's first TitleLimit characters and must never be authored
// independently.
func TitleFor(caption string) string {
	if caption == "" {
		return TitleFallback
	}
	runes := []rune(caption)
	if len(runes) <= TitleLimit {
		return caption
	}
	return string(runes[:TitleLimit])
}

// Clone returns a deep copy so callers holding a snapshot cannot alias the
// stored slices.
func (c *ContentItem) Clone() *ContentItem {
	if c == nil {
		return nil
	}
	cp := *c
	cp.MediaRefs = append([]string(nil), c.MediaRefs...)
	cp.PlatformIDs = append([]string(nil), c.PlatformIDs...)
	if c.ScheduledAt != nil {
		at := *c.ScheduledAt
		cp.ScheduledAt = &at
	}
	return &cp
}
