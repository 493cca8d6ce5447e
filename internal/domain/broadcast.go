package domain

import "time"

// BroadcastMessage targets a set of roles. Per-recipient state lives in
// BroadcastInteraction records, never on the message itself.
type BroadcastMessage struct {
	ID        string
	Title     string
	Body      string
	Roles     []Role
	CreatedAt time.Time
}

func (m BroadcastMessage) TargetsRole(r Role) bool {
	if len(m.Roles) == 0 {
		return true
	}
	for _, mr := range m.Roles {
		if mr == r {
			return true
		}
	}
	return false
}

type BroadcastInteraction struct {
	MessageID    string
	UserID       string
	Read         bool
	Liked        bool
	DeletedForMe bool
	UpdatedAt    time.Time
}
