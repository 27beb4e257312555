package models

import "time"

// Announcement is a club-scoped post, always authored by that club's
// representative.
type Announcement struct {
	ID        string    `db:"id" json:"id"`
	ClubID    string    `db:"club_id" json:"club_id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Resolved at query time so callers can render without extra lookups.
	AuthorName string `db:"author_name" json:"author_name"`
	ClubName   string `db:"club_name" json:"club_name"`
}
