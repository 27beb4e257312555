package models

import "time"

// ClubCategory classifies a club in the directory.
type ClubCategory string

const (
	ClubCategoryTechnical ClubCategory = "Technical"
	ClubCategoryCultural  ClubCategory = "Cultural"
	ClubCategorySports    ClubCategory = "Sports"
	ClubCategorySocial    ClubCategory = "Social"
	ClubCategoryAcademic  ClubCategory = "Academic"
	ClubCategoryArts      ClubCategory = "Arts"
	ClubCategoryOther     ClubCategory = "Other"
)

// ValidClubCategory reports whether the category is a known one.
func ValidClubCategory(c ClubCategory) bool {
	switch c {
	case ClubCategoryTechnical, ClubCategoryCultural, ClubCategorySports,
		ClubCategorySocial, ClubCategoryAcademic, ClubCategoryArts, ClubCategoryOther:
		return true
	default:
		return false
	}
}

// Club represents a campus club. Each club has exactly one representative
// account and optionally a faculty coordinator.
type Club struct {
	ID                   string       `db:"id" json:"id"`
	Name                 string       `db:"name" json:"name"`
	Description          string       `db:"description" json:"description"`
	Category             ClubCategory `db:"category" json:"category"`
	LogoURL              *string      `db:"logo_url" json:"logo_url,omitempty"`
	MemberCount          int          `db:"member_count" json:"member_count"`
	RepresentativeID     string       `db:"representative_id" json:"representative_id"`
	FacultyCoordinatorID *string      `db:"faculty_coordinator_id" json:"faculty_coordinator_id,omitempty"`
	CoordinatorName      *string      `db:"coordinator_name" json:"coordinator_name,omitempty"`
	RepresentativeName   *string      `db:"representative_name" json:"representative_name,omitempty"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`

	Team []ClubTeamMember `db:"-" json:"team,omitempty"`
}

// ClubTeamMember is a named position on a club's team page.
type ClubTeamMember struct {
	ClubID string `db:"club_id" json:"-"`
	Name   string `db:"name" json:"name"`
	Role   string `db:"role" json:"role"`
}

// ClubSummary is the display projection joined onto announcements and events.
type ClubSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ClubDashboard aggregates everything a representative sees on their
// club page.
type ClubDashboard struct {
	Club                *Club          `json:"club"`
	RecentAnnouncements []Announcement `json:"recent_announcements"`
	UpcomingEvents      []Event        `json:"upcoming_events"`
	Followers           []UserSummary  `json:"followers"`
}
