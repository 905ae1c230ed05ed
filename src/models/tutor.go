package models

// Tutor holds the availability flags the coordinator reads to gate
// re-entry and to decide whether ending a session should release the
// tutor back to the queue.
type Tutor struct {
	TutorID     string `json:"tutor_id"`
	IsActive    bool   `json:"is_active"`
	IsOnMeeting bool   `json:"is_on_meeting"`
}
