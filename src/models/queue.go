package models

// Role identifies which waiting line a queue entry belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// Valid reports whether the role is one of the two known lines.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

// QueueEntry is a waiting party recorded with its arrival order.
// EnqueuedAt is a process-local monotonic sequence number; FIFO order and
// the externally reported position both derive from it.
type QueueEntry struct {
	Identity   string `json:"identity"`
	Role       Role   `json:"role"`
	EnqueuedAt uint64 `json:"enqueued_at"`
}
