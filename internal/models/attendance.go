package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject is a personal attendance-tracked course. Days holds the
// weekdays (0=Sunday..6=Saturday) the subject meets.
type Subject struct {
	ID        string        `db:"id" json:"id"`
	UserID    string        `db:"user_id" json:"user_id"`
	Name      string        `db:"name" json:"name"`
	Days      pq.Int64Array `db:"days" json:"days"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// AttendanceStatus marks a single class outcome.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "present"
	AttendanceAbsent    AttendanceStatus = "absent"
	AttendanceCancelled AttendanceStatus = "cancelled"
)

// ValidAttendanceStatus reports whether the status is a known one.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceCancelled:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one user's attendance mark for a subject on a day.
// A regular and an extra class on the same day are distinct rows.
type AttendanceRecord struct {
	ID           string           `db:"id" json:"id"`
	UserID       string           `db:"user_id" json:"user_id"`
	SubjectID    string           `db:"subject_id" json:"subject_id"`
	Date         time.Time        `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
	IsExtraClass bool             `db:"is_extra_class" json:"is_extra_class"`

	SubjectName string `db:"subject_name" json:"subject_name,omitempty"`
}
