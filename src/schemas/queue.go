package schemas

// WaitingListResponse carries the full ordered waiting line, oldest first.
type WaitingListResponse struct {
	Role    string   `json:"role"`
	Waiting []string `json:"waiting"`
}

// QueueStatusResponse reports a single party's standing in its queue.
// Position is 1-based from the head; -1 when the party is not waiting.
type QueueStatusResponse struct {
	Waiting  []string `json:"waiting"`
	Position int      `json:"position"`
	Status   bool     `json:"status"`
}
