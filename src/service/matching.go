package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/config"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/queue"
)

// SessionStore is the coordinator's contract with the durable session
// record. All calls are single-row and read-your-writes.
type SessionStore interface {
	GetActiveSessionByStudent(ctx context.Context, studentID string) (*models.Session, error)
	GetActiveSessionByTutor(ctx context.Context, tutorID string) (*models.Session, error)
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (models.SessionStatus, error)
	CreateSession(ctx context.Context, tutorID, studentID, meetingLink string) (*models.Session, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status models.SessionStatus) error
}

// TutorStore is the coordinator's contract with the tutor availability
// flags.
type TutorStore interface {
	GetTutor(ctx context.Context, tutorID string) (*models.Tutor, error)
	ListTutors(ctx context.Context) ([]models.Tutor, error)
	SetActive(ctx context.Context, tutorID string, isActive bool) error
	SetOnMeeting(ctx context.Context, tutorID string, isOnMeeting bool) error
}

// Broadcaster is the fire-and-forget notification channel. Implementations
// must never block the caller and never return delivery failures.
type Broadcaster interface {
	Broadcast(exchange string, payload interface{})
}

// MatchingService is the orchestration layer between the waiting lines and
// the session store. It owns the only queue.Manager instance in the
// process; all queue access goes through it.
//
// mu serializes every queue-mutating operation together with the
// active-session checks, so no caller can observe a mid-match state: an
// entry removed from one line but not the other, or removed entries with
// no session row yet.
type MatchingService struct {
	mu sync.Mutex

	queues      *queue.Manager
	sessions    SessionStore
	tutors      TutorStore
	broadcaster Broadcaster

	meetingBaseURL string
	storeTimeout   time.Duration
}

// NewMatchingService creates the coordinator with its own queue manager.
func NewMatchingService(sessions SessionStore, tutors TutorStore, broadcaster Broadcaster, cfg *config.GlobalConfig) *MatchingService {
	return &MatchingService{
		queues:         queue.NewManager(),
		sessions:       sessions,
		tutors:         tutors,
		broadcaster:    broadcaster,
		meetingBaseURL: cfg.MeetingBaseURL,
		storeTimeout:   cfg.StoreTimeout,
	}
}

// withStoreTimeout bounds a session store call so no operation blocks
// indefinitely.
func (s *MatchingService) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr converts store failures into the retryable
// ErrPersistenceUnavailable, passing domain sentinels through unchanged.
func storeErr(op string, err error) error {
	if errors.Is(err, models.ErrSessionNotFound) ||
		errors.Is(err, models.ErrTutorNotFound) ||
		errors.Is(err, models.ErrAlreadyActive) {
		return err
	}
	slog.Error("Session store call failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s", models.ErrPersistenceUnavailable, op)
}

// RequestSession puts a student into the waiting line and attempts a
// match. If the student already has an active session (e.g. a reconnect
// after a match the client never saw), that session is returned instead of
// re-queuing, which makes the request idempotent across retries.
// The second return value reports whether the student is (still) waiting.
func (s *MatchingService) RequestSession(ctx context.Context, studentID string) (*models.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	existing, err := s.sessions.GetActiveSessionByStudent(storeCtx, studentID)
	if err != nil {
		return nil, false, storeErr("get active session", err)
	}
	if existing != nil {
		slog.Info("Student reconnecting to existing session",
			"student_id", studentID,
			"session_id", existing.SessionID)
		return existing, false, nil
	}

	if s.queues.Enqueue(models.RoleStudent, studentID) {
		s.broadcastQueueChanged(models.RoleStudent)
	}

	matched, err := s.tryMatchLocked(ctx)
	if err != nil {
		// The student keeps their place; the match can be retried.
		return nil, true, err
	}
	if matched != nil && matched.StudentID == studentID {
		return matched, false, nil
	}
	return nil, true, nil
}

// CancelRequest removes the student's waiting entry. Cancelling after a
// match (or without ever requesting) is an expected race and a no-op; the
// returned flag reports whether an entry was actually removed.
func (s *MatchingService) CancelRequest(studentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.queues.Cancel(models.RoleStudent, studentID)
	if removed {
		s.broadcastQueueChanged(models.RoleStudent)
	} else {
		slog.Info("Cancel for student not in queue", "student_id", studentID)
	}
	return removed
}

// TryMatch pairs the head student with the head tutor if both lines are
// non-empty. It returns the created session, or nil when no pairing is
// possible.
func (s *MatchingService) TryMatch(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryMatchLocked(ctx)
}

// TryMatchAt is the position-driven entry point kept for old clients that
// report the queue position they see. The reported position is stale by
// nature and is not trusted to select a tutor: matching is always head to
// head.
func (s *MatchingService) TryMatchAt(ctx context.Context, position int) (*models.Session, error) {
	if position != 1 {
		slog.Warn("Ignoring client-supplied queue position, matching heads", "position", position)
	}
	return s.TryMatch(ctx)
}

// tryMatchLocked performs the atomic pairing. The session row is created
// first; only after the store commits are the two entries removed, so a
// store failure leaves both lines untouched and no observer ever sees a
// half-completed match. Callers must hold mu.
func (s *MatchingService) tryMatchLocked(ctx context.Context) (*models.Session, error) {
	studentID, ok := s.queues.Head(models.RoleStudent)
	if !ok {
		return nil, nil
	}
	tutorID, ok := s.queues.Head(models.RoleTutor)
	if !ok {
		return nil, nil
	}

	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	session, err := s.sessions.CreateSession(storeCtx, tutorID, studentID, s.meetingLink())
	if err != nil {
		return nil, storeErr("create session", err)
	}

	s.queues.Cancel(models.RoleStudent, studentID)
	s.queues.Cancel(models.RoleTutor, tutorID)

	slog.Info("Matched student with tutor",
		"student_id", studentID,
		"tutor_id", tutorID,
		"session_id", session.SessionID)

	s.broadcastQueueChanged(models.RoleStudent)
	s.broadcastQueueChanged(models.RoleTutor)
	s.broadcaster.Broadcast(config.SESSION_CREATED_EXCHANGE, models.SessionCreatedEvent{
		SessionID:   session.SessionID,
		TutorID:     session.TutorID,
		StudentID:   session.StudentID,
		MeetingLink: session.MeetingLink,
	})

	return session, nil
}

// EndSession is the normal end path (by student or timeout). The session
// is ended and the tutor re-enqueued at the tail, unless the tutor is
// still flagged on-meeting by some other concurrent cause, in which case
// nothing changes (guards against a duplicate requeue of a tutor who has
// already moved on).
func (s *MatchingService) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadActiveSession(ctx, sessionID)
	if err != nil {
		return err
	}

	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	tutor, err := s.tutors.GetTutor(storeCtx, session.TutorID)
	if err != nil && !errors.Is(err, models.ErrTutorNotFound) {
		return storeErr("get tutor", err)
	}
	if tutor != nil && tutor.IsOnMeeting {
		slog.Info("Tutor still on meeting, leaving session untouched",
			"session_id", sessionID,
			"tutor_id", session.TutorID)
		return nil
	}

	return s.endSessionLocked(ctx, session, models.EndedByStudent)
}

// EndSessionByTutor is the tutor-initiated end path. The tutor's
// on-meeting flag is cleared and the tutor re-enqueued; the student is not,
// because ending by tutor implies the student's need was served.
func (s *MatchingService) EndSessionByTutor(ctx context.Context, tutorID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadActiveSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.TutorID != tutorID {
		return models.ErrSessionNotFound
	}

	return s.endSessionLocked(ctx, session, models.EndedByTutor)
}

// DisconnectByTutor is the abnormal termination path: the tutor dropped
// without a proper end. The student is re-enqueued so they do not lose
// their place, and the tutor is deactivated until it re-registers.
func (s *MatchingService) DisconnectByTutor(ctx context.Context, tutorID, sessionID, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadActiveSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.TutorID != tutorID {
		return models.ErrSessionNotFound
	}

	return s.endSessionLocked(ctx, session, models.TutorDisconnected)
}

// loadActiveSession fetches a session and rejects anything not ACTIVE:
// ENDED is terminal, so ending an already ended session reports
// ErrSessionNotFound and changes nothing. Callers must hold mu.
func (s *MatchingService) loadActiveSession(ctx context.Context, sessionID string) (*models.Session, error) {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	session, err := s.sessions.GetSessionByID(storeCtx, sessionID)
	if err != nil {
		return nil, storeErr("get session", err)
	}
	if session.Status != models.StatusActive {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

// endSessionLocked is the single ACTIVE->ENDED transition point; all three
// termination paths dispatch through it. Flag updates run before the
// status transition and queue requeues after it, so a store failure at any
// point leaves a state from which a retry converges. Callers must hold mu.
func (s *MatchingService) endSessionLocked(ctx context.Context, session *models.Session, reason models.TerminationReason) error {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	switch reason {
	case models.EndedByTutor:
		if err := s.tutors.SetOnMeeting(storeCtx, session.TutorID, false); err != nil && !errors.Is(err, models.ErrTutorNotFound) {
			return storeErr("clear tutor on-meeting flag", err)
		}
	case models.TutorDisconnected:
		if err := s.tutors.SetActive(storeCtx, session.TutorID, false); err != nil {
			return storeErr("deactivate tutor", err)
		}
	}

	if err := s.sessions.UpdateSessionStatus(storeCtx, session.SessionID, models.StatusEnded); err != nil {
		return storeErr("update session status", err)
	}

	slog.Info("Session ended",
		"session_id", session.SessionID,
		"reason", reason.String())

	switch reason {
	case models.EndedByStudent, models.EndedByTutor:
		if s.queues.Enqueue(models.RoleTutor, session.TutorID) {
			s.broadcastQueueChanged(models.RoleTutor)
		}
	case models.TutorDisconnected:
		if s.queues.Enqueue(models.RoleStudent, session.StudentID) {
			s.broadcastQueueChanged(models.RoleStudent)
		}
	}

	s.broadcaster.Broadcast(config.SESSION_STATUS_EXCHANGE, models.SessionStatusChangedEvent{
		SessionID: session.SessionID,
		TutorID:   session.TutorID,
		Status:    models.StatusEnded,
		Reason:    reason.String(),
	})

	return nil
}

// SetTutorActive toggles tutor availability. Activating enqueues the tutor
// (unless it is already on a session) and immediately attempts a match;
// deactivating removes any waiting entry.
func (s *MatchingService) SetTutorActive(ctx context.Context, tutorID string, isActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	if !isActive {
		if err := s.tutors.SetActive(storeCtx, tutorID, false); err != nil {
			return storeErr("deactivate tutor", err)
		}
		if s.queues.Cancel(models.RoleTutor, tutorID) {
			s.broadcastQueueChanged(models.RoleTutor)
		}
		return nil
	}

	active, err := s.sessions.GetActiveSessionByTutor(storeCtx, tutorID)
	if err != nil {
		return storeErr("get active session", err)
	}

	if err := s.tutors.SetActive(storeCtx, tutorID, true); err != nil {
		return storeErr("activate tutor", err)
	}

	if active != nil {
		// Activation and session membership are mutually exclusive; the
		// tutor joins the line once the session ends.
		slog.Info("Tutor activated while on a session, not enqueued",
			"tutor_id", tutorID,
			"session_id", active.SessionID)
		return nil
	}

	if s.queues.Enqueue(models.RoleTutor, tutorID) {
		s.broadcastQueueChanged(models.RoleTutor)
	}

	_, err = s.tryMatchLocked(ctx)
	return err
}

// MarkTutorJoined records that the tutor actually entered the meeting
// room. A tutor on a meeting is never in the waiting line, so any stale
// entry is removed here.
func (s *MatchingService) MarkTutorJoined(ctx context.Context, tutorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	if err := s.tutors.SetOnMeeting(storeCtx, tutorID, true); err != nil {
		return storeErr("set tutor on-meeting flag", err)
	}

	if s.queues.Cancel(models.RoleTutor, tutorID) {
		s.broadcastQueueChanged(models.RoleTutor)
	}
	return nil
}

// GetWaitingList returns the ordered waiting line for a role, oldest
// first.
func (s *MatchingService) GetWaitingList(role models.Role) []string {
	return s.queues.ListWaiting(role)
}

// GetPosition returns the 1-based position of identity in its line, or
// ErrNotWaiting when the identity holds no entry.
func (s *MatchingService) GetPosition(role models.Role, identity string) (int, error) {
	pos, ok := s.queues.PositionOf(role, identity)
	if !ok {
		return -1, models.ErrNotWaiting
	}
	return pos, nil
}

// GetQueueStatus returns the waiting line and identity's position as one
// consistent snapshot.
func (s *MatchingService) GetQueueStatus(role models.Role, identity string) ([]string, int, bool) {
	return s.queues.StatusOf(role, identity)
}

// GetActiveSessionForStudent returns the student's active session, or nil
// when there is none.
func (s *MatchingService) GetActiveSessionForStudent(ctx context.Context, studentID string) (*models.Session, error) {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	session, err := s.sessions.GetActiveSessionByStudent(storeCtx, studentID)
	if err != nil {
		return nil, storeErr("get active session", err)
	}
	return session, nil
}

// GetActiveSessionForTutor returns the tutor's active session, or nil when
// there is none.
func (s *MatchingService) GetActiveSessionForTutor(ctx context.Context, tutorID string) (*models.Session, error) {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	session, err := s.sessions.GetActiveSessionByTutor(storeCtx, tutorID)
	if err != nil {
		return nil, storeErr("get active session", err)
	}
	return session, nil
}

// GetSessionStatus returns the lifecycle status of a session.
func (s *MatchingService) GetSessionStatus(ctx context.Context, sessionID string) (models.SessionStatus, error) {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	status, err := s.sessions.GetSessionStatus(storeCtx, sessionID)
	if err != nil {
		return "", storeErr("get session status", err)
	}
	return status, nil
}

// ListTutors returns all tutors with their availability flags.
func (s *MatchingService) ListTutors(ctx context.Context) ([]models.Tutor, error) {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	tutors, err := s.tutors.ListTutors(storeCtx)
	if err != nil {
		return nil, storeErr("list tutors", err)
	}
	return tutors, nil
}

func (s *MatchingService) meetingLink() string {
	return s.meetingBaseURL + "/meeting"
}

func (s *MatchingService) broadcastQueueChanged(role models.Role) {
	exchange := config.STUDENT_QUEUE_EXCHANGE
	if role == models.RoleTutor {
		exchange = config.TUTOR_QUEUE_EXCHANGE
	}
	s.broadcaster.Broadcast(exchange, models.QueueChangedEvent{
		Role:    role,
		Waiting: s.queues.ListWaiting(role),
	})
}
