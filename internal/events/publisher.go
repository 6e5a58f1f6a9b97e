// Package events carries the cross-entity side-effect contract: every write
// that obligates a change elsewhere (chat previews, participant lists) is
// announced as a typed event for whatever orchestration layer consumes them.
package events

import "context"

const (
	TypeMessageSent        = "message.sent"
	TypeChatPreviewUpdated = "chat.preview_updated"
	TypeGroupCreated       = "group.created"
	TypeGroupMemberAdded   = "group.member_added"
	TypeGroupMemberRemoved = "group.member_removed"
	TypeGroupDeleted       = "group.deleted"
)

type Event struct {
	Type      string `json:"type"`
	ChatID    string `json:"chat_id,omitempty"`
	GroupID   string `json:"group_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Key picks the partition key: events about the same conversation must land
// in order.
func (e Event) Key() string {
	if e.ChatID != "" {
		return e.ChatID
	}
	return e.GroupID
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
