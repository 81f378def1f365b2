package domain

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultAuthor is used when neither the form nor the logged-in
	// principal supplies an author.
	DefaultAuthor = "Styrelsen"

	// DefaultVisibilityWindow is how long a non-permanent item stays
	// visible when no end date is given.
	DefaultVisibilityWindow = 30 * 24 * time.Hour

	titleMinLength   = 3
	contentMinLength = 4
)

// NewsItem is a single news post on the cooperative website.
type NewsItem struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title        string    `json:"title" gorm:"not null"`
	Content      string    `json:"content" gorm:"not null"`
	PublishDate  time.Time `json:"publishDate" gorm:"not null;index"`
	VisibleUntil time.Time `json:"visibleUntil"`
	IsPermanent  bool      `json:"isPermanent" gorm:"not null;default:false"`
	IsPublished  bool      `json:"isPublished" gorm:"not null;default:false"`
	Author       string    `json:"author" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VisibleAt reports whether the item is publicly visible at the given
// time. Drafts and items with a future publish date are never visible.
// For permanent items VisibleUntil is not consulted at all, so a stale
// end date cannot hide them. A non-permanent item with a zero
// VisibleUntil never matches.
func (n NewsItem) VisibleAt(now time.Time) bool {
	if !n.IsPublished {
		return false
	}
	if n.PublishDate.After(now) {
		return false
	}
	if n.IsPermanent {
		return true
	}
	if n.VisibleUntil.IsZero() {
		return false
	}
	return !n.VisibleUntil.Before(now)
}

// SelectPublicFeed returns the items visible at now, newest publish
// date first. The sort is stable so items sharing a publish date keep
// their storage order.
func SelectPublicFeed(items []NewsItem, now time.Time) []NewsItem {
	feed := make([]NewsItem, 0, len(items))
	for _, item := range items {
		if item.VisibleAt(now) {
			feed = append(feed, item)
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].PublishDate.After(feed[j].PublishDate)
	})
	return feed
}

// Validate checks the editable fields and returns a *ValidationError
// listing every violation, or nil.
func (n NewsItem) Validate() error {
	fields := map[string]string{}

	title := strings.TrimSpace(n.Title)
	if title == "" {
		fields["title"] = "Titel är obligatorisk"
	} else if utf8.RuneCountInString(title) < titleMinLength {
		fields["title"] = "Titel måste vara minst 3 tecken lång"
	}

	content := strings.TrimSpace(n.Content)
	if content == "" {
		fields["content"] = "Innehåll är obligatoriskt"
	} else if utf8.RuneCountInString(content) < contentMinLength {
		fields["content"] = "Innehållet måste vara minst 4 tecken"
	}

	if !n.IsPermanent && n.VisibleUntil.IsZero() {
		fields["visibleUntil"] = "Slutdatum saknas"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
