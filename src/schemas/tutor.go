package schemas

// UpdateTutorActiveRequest toggles a tutor's availability.
type UpdateTutorActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// TutorResponse represents a tutor's availability flags.
type TutorResponse struct {
	TutorID     string `json:"tutor_id"`
	IsActive    bool   `json:"is_active"`
	IsOnMeeting bool   `json:"is_on_meeting"`
}
