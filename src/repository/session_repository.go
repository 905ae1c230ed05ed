package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/db"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
)

// SessionRepository handles all database operations for sessions.
// Sessions are an append-only audit trail of meetings held: rows are
// created on match and mutated exactly once, ACTIVE to ENDED.
type SessionRepository struct {
	db *db.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(database *db.DB) *SessionRepository {
	return &SessionRepository{
		db: database,
	}
}

const sessionColumns = `session_id, tutor_id, student_id, meeting_link, session_status, created_at`

func scanSession(row *sql.Row) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.SessionID,
		&session.TutorID,
		&session.StudentID,
		&session.MeetingLink,
		&session.Status,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveSessionByStudent retrieves the student's ACTIVE session, or nil
// when the student has none.
func (r *SessionRepository) GetActiveSessionByStudent(ctx context.Context, studentID string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE student_id = $1 AND session_status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.GetConnection().QueryRowContext(ctx, query, studentID, models.StatusActive))
	if err == sql.ErrNoRows {
		// No active session found - this is not an error, just means no session exists
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session for student: %w", err)
	}

	slog.Info("Found active session",
		"student_id", studentID,
		"session_id", session.SessionID)

	return session, nil
}

// GetActiveSessionByTutor retrieves the tutor's ACTIVE session, or nil
// when the tutor has none.
func (r *SessionRepository) GetActiveSessionByTutor(ctx context.Context, tutorID string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tutor_id = $1 AND session_status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.GetConnection().QueryRowContext(ctx, query, tutorID, models.StatusActive))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session for tutor: %w", err)
	}

	return session, nil
}

// GetSessionByID retrieves a session regardless of status.
func (r *SessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE session_id = $1
	`

	session, err := scanSession(r.db.GetConnection().QueryRowContext(ctx, query, sessionID))
	if err == sql.ErrNoRows {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// CreateSession inserts a new ACTIVE session for a matched pair.
func (r *SessionRepository) CreateSession(ctx context.Context, tutorID, studentID, meetingLink string) (*models.Session, error) {
	sessionID := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO sessions
		(session_id, tutor_id, student_id, meeting_link, session_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns + `
	`

	session, err := scanSession(r.db.GetConnection().QueryRowContext(
		ctx,
		query,
		sessionID,
		tutorID,
		studentID,
		meetingLink,
		models.StatusActive,
		now,
	))
	if err != nil {
		// The partial unique indexes on ACTIVE rows enforce the
		// one-active-session-per-party invariant.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, models.ErrAlreadyActive
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("Created new session",
		"tutor_id", tutorID,
		"student_id", studentID,
		"session_id", session.SessionID)

	return session, nil
}

// UpdateSessionStatus transitions an ACTIVE session to the given status.
// The WHERE clause guards the ACTIVE->ENDED transition so an already ended
// or unknown session reports models.ErrSessionNotFound and nothing changes.
func (r *SessionRepository) UpdateSessionStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	query := `
		UPDATE sessions
		SET session_status = $1
		WHERE session_id = $2 AND session_status = $3
	`

	result, err := r.db.GetConnection().ExecContext(ctx, query, status, sessionID, models.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrSessionNotFound
	}

	slog.Info("Updated session status",
		"session_id", sessionID,
		"status", status)

	return nil
}

// GetSessionStatus returns only the lifecycle status of a session.
func (r *SessionRepository) GetSessionStatus(ctx context.Context, sessionID string) (models.SessionStatus, error) {
	query := `
		SELECT session_status
		FROM sessions
		WHERE session_id = $1
	`

	var status models.SessionStatus
	err := r.db.GetConnection().QueryRowContext(ctx, query, sessionID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", models.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session status: %w", err)
	}

	return status, nil
}
