package schemas

import "github.com/Pavithiran2000/Start-Finish-Backend/src/models"

// SessionResponse represents a session returned to clients.
type SessionResponse struct {
	SessionID   string `json:"session_id"`
	TutorID     string `json:"tutor_id"`
	StudentID   string `json:"student_id"`
	MeetingLink string `json:"meeting_link"`
	Status      string `json:"session_status"`
}

// NewSessionResponse converts a session model to its API representation.
func NewSessionResponse(s *models.Session) *SessionResponse {
	return &SessionResponse{
		SessionID:   s.SessionID,
		TutorID:     s.TutorID,
		StudentID:   s.StudentID,
		MeetingLink: s.MeetingLink,
		Status:      string(s.Status),
	}
}

// RequestSessionResponse is returned from a session request. Exactly one of
// the two shapes is populated: an existing/new session, or a queued flag.
type RequestSessionResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Queued  bool             `json:"queued"`
	Session *SessionResponse `json:"session,omitempty"`
}

// SessionStatusResponse reports only the lifecycle status of a session.
type SessionStatusResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"session_status"`
}
