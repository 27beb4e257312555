package models

import "time"

// Event is a dated club happening. The general feed only surfaces future
// events; club pages list every event regardless of date.
type Event struct {
	ID          string    `db:"id" json:"id"`
	ClubID      string    `db:"club_id" json:"club_id"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	Location    string    `db:"location" json:"location"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Resolved at query time so callers can render without extra lookups.
	AuthorName string `db:"author_name" json:"author_name"`
	ClubName   string `db:"club_name" json:"club_name"`
}
