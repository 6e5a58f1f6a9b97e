// Package service owns the cross-entity consistency steps the repositories
// deliberately leave out, starting with the send -> chat preview refresh.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/events"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/repository"
)

type MessageService struct {
	messages *repository.MessageRepository
	chats    *repository.ChatRepository
	pub      events.Publisher
	log      *zap.SugaredLogger
}

func NewMessageService(messages *repository.MessageRepository, chats *repository.ChatRepository, pub events.Publisher, log *zap.SugaredLogger) *MessageService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &MessageService{messages: messages, chats: chats, pub: pub, log: log}
}

// Send persists the message and then refreshes the owning chat's preview
// fields. The two writes are not atomic: when the preview refresh fails the
// message is already stored, the error surfaces, and the caller reconciles
// by retrying the preview step.
func (s *MessageService) Send(ctx context.Context, msg *models.Message) error {
	if err := s.messages.Send(ctx, msg); err != nil {
		return err
	}

	if err := s.chats.UpdatePreview(ctx, msg.ChatID, msg.ID, previewText(msg), msg.Timestamp); err != nil {
		s.log.Errorw("chat preview refresh failed after send", "chat_id", msg.ChatID, "message_id", msg.ID, "err", err)
		return err
	}

	s.publish(ctx, events.Event{Type: events.TypeMessageSent, ChatID: msg.ChatID, MessageID: msg.ID, UserID: msg.SenderID})
	s.publish(ctx, events.Event{Type: events.TypeChatPreviewUpdated, ChatID: msg.ChatID, MessageID: msg.ID})
	return nil
}

func (s *MessageService) GetByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	return s.messages.GetByChatID(ctx, chatID)
}

func previewText(msg *models.Message) string {
	if msg.MessageType == models.MessageTypeText || msg.Content != "" {
		return msg.Content
	}
	return string(msg.MessageType)
}

func (s *MessageService) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Errorw("event publish failed", "type", ev.Type, "chat_id", ev.ChatID, "err", err)
	}
}
