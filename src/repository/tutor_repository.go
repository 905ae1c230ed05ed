package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/db"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
)

// TutorRepository handles all database operations for tutor availability
// flags.
type TutorRepository struct {
	db *db.DB
}

// NewTutorRepository creates a new tutor repository
func NewTutorRepository(database *db.DB) *TutorRepository {
	return &TutorRepository{
		db: database,
	}
}

// GetTutor retrieves a tutor's availability flags.
func (r *TutorRepository) GetTutor(ctx context.Context, tutorID string) (*models.Tutor, error) {
	query := `
		SELECT tutor_id, is_active, is_on_meeting
		FROM tutors
		WHERE tutor_id = $1
	`

	var tutor models.Tutor
	err := r.db.GetConnection().QueryRowContext(ctx, query, tutorID).Scan(
		&tutor.TutorID,
		&tutor.IsActive,
		&tutor.IsOnMeeting,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTutorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}

	return &tutor, nil
}

// ListTutors returns all tutors with their availability flags.
func (r *TutorRepository) ListTutors(ctx context.Context) ([]models.Tutor, error) {
	query := `
		SELECT tutor_id, is_active, is_on_meeting
		FROM tutors
		ORDER BY tutor_id ASC
	`

	rows, err := r.db.GetConnection().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}
	defer rows.Close()

	var tutors []models.Tutor
	for rows.Next() {
		var tutor models.Tutor
		if err := rows.Scan(&tutor.TutorID, &tutor.IsActive, &tutor.IsOnMeeting); err != nil {
			return nil, fmt.Errorf("failed to scan tutor row: %w", err)
		}
		tutors = append(tutors, tutor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tutor rows: %w", err)
	}

	return tutors, nil
}

// SetActive updates a tutor's availability flag, creating the row on first
// registration.
func (r *TutorRepository) SetActive(ctx context.Context, tutorID string, isActive bool) error {
	query := `
		INSERT INTO tutors (tutor_id, is_active, is_on_meeting)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (tutor_id) DO UPDATE SET is_active = $2
	`

	if _, err := r.db.GetConnection().ExecContext(ctx, query, tutorID, isActive); err != nil {
		return fmt.Errorf("failed to update tutor active flag: %w", err)
	}

	slog.Info("Updated tutor active flag",
		"tutor_id", tutorID,
		"is_active", isActive)

	return nil
}

// SetOnMeeting updates a tutor's on-meeting flag.
func (r *TutorRepository) SetOnMeeting(ctx context.Context, tutorID string, isOnMeeting bool) error {
	query := `
		UPDATE tutors
		SET is_on_meeting = $1
		WHERE tutor_id = $2
	`

	result, err := r.db.GetConnection().ExecContext(ctx, query, isOnMeeting, tutorID)
	if err != nil {
		return fmt.Errorf("failed to update tutor on-meeting flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrTutorNotFound
	}

	return nil
}
