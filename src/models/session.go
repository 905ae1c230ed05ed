package models

import "time"

// SessionStatus represents the lifecycle status of a tutoring session.
type SessionStatus string

const (
	StatusActive SessionStatus = "ACTIVE"
	StatusEnded  SessionStatus = "ENDED"
)

// Session represents a tutor-student meeting record in the database.
// Sessions are append-only: ENDED is terminal, and a pair that meets again
// gets a brand new row.
type Session struct {
	SessionID   string        `json:"session_id"`
	TutorID     string        `json:"tutor_id"`
	StudentID   string        `json:"student_id"`
	MeetingLink string        `json:"meeting_link"`
	Status      SessionStatus `json:"session_status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TerminationReason tags the three ways an active session can end. The
// coordinator dispatches requeue behaviour on it in a single place.
type TerminationReason int

const (
	// EndedByStudent is the normal end path: the tutor goes back to the
	// tail of the tutor queue.
	EndedByStudent TerminationReason = iota
	// EndedByTutor means the student's need was served; only the tutor is
	// re-enqueued.
	EndedByTutor
	// TutorDisconnected is the abnormal path: the student is re-enqueued
	// and the tutor is deactivated until it re-registers.
	TutorDisconnected
)

func (r TerminationReason) String() string {
	switch r {
	case EndedByStudent:
		return "ended_by_student"
	case EndedByTutor:
		return "ended_by_tutor"
	case TutorDisconnected:
		return "tutor_disconnected"
	default:
		return "unknown"
	}
}
