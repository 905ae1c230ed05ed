package models

// QueueChangedEvent announces that one of the waiting lines changed.
// Waiting carries the full ordered list, oldest first.
type QueueChangedEvent struct {
	Role    Role     `json:"role"`
	Waiting []string `json:"waiting"`
}

// SessionCreatedEvent announces a successful match.
type SessionCreatedEvent struct {
	SessionID   string `json:"session_id"`
	TutorID     string `json:"tutor_id"`
	StudentID   string `json:"student_id"`
	MeetingLink string `json:"meeting_link"`
}

// SessionStatusChangedEvent announces a session lifecycle transition.
type SessionStatusChangedEvent struct {
	SessionID string        `json:"session_id"`
	TutorID   string        `json:"tutor_id"`
	Status    SessionStatus `json:"session_status"`
	Reason    string        `json:"reason,omitempty"`
}
