package queue

import (
	"sync"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
)

// Manager owns the two waiting lines: one of waiting students, one of
// available tutors. It knows nothing about sessions; the coordinator is
// responsible for keeping queue membership and session state consistent.
//
// Ordering is strictly FIFO by arrival. The externally reported position
// is recomputed on every query, never cached, so it always equals the
// number of still-waiting entries ahead of the queried one.
type Manager struct {
	mu    sync.RWMutex
	seq   uint64
	lines map[models.Role][]models.QueueEntry
}

// NewManager creates a Manager with empty student and tutor lines.
func NewManager() *Manager {
	return &Manager{
		lines: map[models.Role][]models.QueueEntry{
			models.RoleStudent: {},
			models.RoleTutor:   {},
		},
	}
}

// Enqueue appends identity to the tail of its role's line. Re-requesting
// while already waiting is a no-op; the original arrival order is kept.
// It reports whether a new entry was created.
func (m *Manager) Enqueue(role models.Role, identity string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.lines[role] {
		if e.Identity == identity {
			return false
		}
	}

	m.seq++
	m.lines[role] = append(m.lines[role], models.QueueEntry{
		Identity:   identity,
		Role:       role,
		EnqueuedAt: m.seq,
	})
	return true
}

// Cancel removes identity's waiting entry if present. A cancel racing with
// a match is expected, so a missing entry is not an error; it reports
// whether an entry was removed.
func (m *Manager) Cancel(role models.Role, identity string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := m.lines[role]
	for i, e := range line {
		if e.Identity == identity {
			m.lines[role] = append(line[:i:i], line[i+1:]...)
			return true
		}
	}
	return false
}

// ListWaiting returns the full ordered sequence of queued identities,
// oldest first.
func (m *Manager) ListWaiting(role models.Role) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	waiting := make([]string, 0, len(m.lines[role]))
	for _, e := range m.lines[role] {
		waiting = append(waiting, e.Identity)
	}
	return waiting
}

// PositionOf returns identity's 1-based rank from the head of its line,
// and false when the identity is not waiting.
func (m *Manager) PositionOf(role models.Role, identity string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, e := range m.lines[role] {
		if e.Identity == identity {
			return i + 1, true
		}
	}
	return -1, false
}

// StatusOf returns the full waiting line together with identity's 1-based
// position, taken under one lock so the two never disagree. Position is -1
// and the flag false when the identity is not waiting.
func (m *Manager) StatusOf(role models.Role, identity string) ([]string, int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	waiting := make([]string, 0, len(m.lines[role]))
	position, found := -1, false
	for i, e := range m.lines[role] {
		waiting = append(waiting, e.Identity)
		if e.Identity == identity {
			position, found = i+1, true
		}
	}
	return waiting, position, found
}

// Head returns the oldest waiting identity without removing it, and false
// when the line is empty.
func (m *Manager) Head(role models.Role) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	line := m.lines[role]
	if len(line) == 0 {
		return "", false
	}
	return line[0].Identity, true
}

// Len returns the number of waiting entries in a line.
func (m *Manager) Len(role models.Role) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines[role])
}
