package models

import "time"

// NoticeCategory classifies official notices. Urgent notices interrupt
// everyone connected, the rest wait for the next feed poll.
type NoticeCategory string

const (
	NoticeCategoryAcademic     NoticeCategory = "Academic"
	NoticeCategoryEvent        NoticeCategory = "Event"
	NoticeCategoryGeneral      NoticeCategory = "General"
	NoticeCategoryClubActivity NoticeCategory = "Club Activity"
	NoticeCategoryLostFound    NoticeCategory = "Lost & Found"
	NoticeCategorySports       NoticeCategory = "Sports"
	NoticeCategoryUrgent       NoticeCategory = "Urgent"
	NoticeCategoryOther        NoticeCategory = "Other"
)

// ValidNoticeCategory reports whether the category is a known one.
func ValidNoticeCategory(c NoticeCategory) bool {
	switch c {
	case NoticeCategoryAcademic, NoticeCategoryEvent, NoticeCategoryGeneral,
		NoticeCategoryClubActivity, NoticeCategoryLostFound, NoticeCategorySports,
		NoticeCategoryUrgent, NoticeCategoryOther:
		return true
	default:
		return false
	}
}

// Notice represents an official notice. Expired notices are filtered at
// query time, never deleted.
type Notice struct {
	ID        string         `db:"id" json:"id"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	AuthorID  string         `db:"author_id" json:"author_id"`
	Category  NoticeCategory `db:"category" json:"category"`
	Audience  string         `db:"audience" json:"audience"`
	ExpiresAt *time.Time     `db:"expires_at" json:"expires_at,omitempty"`
	IsPinned  bool           `db:"is_pinned" json:"is_pinned"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`

	// Resolved at query time so callers can render without extra lookups.
	AuthorName string   `db:"author_name" json:"author_name"`
	AuthorRole UserRole `db:"author_role" json:"author_role"`
}
