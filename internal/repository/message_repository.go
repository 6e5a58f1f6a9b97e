package repository

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store"
)

type MessageRepository struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewMessageRepository(st store.Store, log *zap.SugaredLogger) *MessageRepository {
	return &MessageRepository{store: st, log: log}
}

// SplitQualifiedID parses the "{chatId}/{messageId}" identifier used to
// address a message inside its chat's subcollection.
func SplitQualifiedID(qualifiedID string) (chatID, messageID string, err error) {
	chatID, messageID, ok := strings.Cut(qualifiedID, "/")
	if !ok || chatID == "" || messageID == "" {
		return "", "", apperr.InvalidArgumentf("malformed message id %q, want {chatId}/{messageId}", qualifiedID)
	}
	return chatID, messageID, nil
}

// GetByChatID returns the chat's messages sorted ascending by timestamp,
// regardless of write order. Ties keep the store's return order.
func (r *MessageRepository) GetByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	if chatID == "" {
		return nil, apperr.InvalidArgumentf("chat id must not be empty")
	}
	docs, err := r.store.Scan(ctx, store.ChatMessages(chatID))
	if err != nil {
		return nil, apperr.FromStore(err, "scan messages of chat %s", chatID)
	}
	out := make([]models.Message, 0, len(docs))
	for _, doc := range docs {
		var m models.Message
		if err := store.Decode(doc, &m); err != nil {
			return nil, apperr.Storef(err, "decode message in chat %s", chatID)
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// Send appends a message to its chat's subcollection, filling in id,
// delivery status and timestamp when absent. The owning chat's preview
// refresh is owed by the orchestration layer, not performed here.
func (r *MessageRepository) Send(ctx context.Context, msg *models.Message) error {
	if msg == nil || msg.ChatID == "" {
		return apperr.InvalidArgumentf("message and message.chat_id must not be empty")
	}
	if msg.MessageType == "" {
		msg.MessageType = models.MessageTypeText
	}
	if !msg.MessageType.Valid() {
		return apperr.InvalidArgumentf("unknown message type %q", msg.MessageType)
	}
	if msg.DeliveryStatus == "" {
		msg.DeliveryStatus = models.StatusSent
	}
	if !msg.DeliveryStatus.Valid() {
		return apperr.InvalidArgumentf("unknown delivery status %q", msg.DeliveryStatus)
	}
	if msg.ID == "" {
		msg.ID = r.store.NewID()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = nowMillis()
	}
	doc, err := store.Encode(msg)
	if err != nil {
		return apperr.Storef(err, "encode message %s", msg.ID)
	}
	if err := r.store.Set(ctx, store.ChatMessages(msg.ChatID), msg.ID, doc); err != nil {
		return apperr.FromStore(err, "send message %s to chat %s", msg.ID, msg.ChatID)
	}
	r.log.Debugw("message sent", "chat_id", msg.ChatID, "message_id", msg.ID)
	return nil
}

// UpdateStatus overwrites the delivery status unconditionally with any valid
// value. Forward-only progression (sent -> delivered -> seen) is not
// enforced; callers get the same permissive behavior the Firestore layer
// exposed, including idempotent re-writes and backwards corrections.
func (r *MessageRepository) UpdateStatus(ctx context.Context, qualifiedID string, status models.DeliveryStatus) error {
	chatID, messageID, err := SplitQualifiedID(qualifiedID)
	if err != nil {
		return err
	}
	if status == "" || !status.Valid() {
		return apperr.InvalidArgumentf("unknown delivery status %q", status)
	}
	partial := bson.M{"delivery_status": string(status)}
	if err := r.store.Patch(ctx, store.ChatMessages(chatID), messageID, partial); err != nil {
		return apperr.FromStore(err, "update status of message %s", qualifiedID)
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, qualifiedID string) error {
	chatID, messageID, err := SplitQualifiedID(qualifiedID)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, store.ChatMessages(chatID), messageID); err != nil {
		return apperr.FromStore(err, "delete message %s", qualifiedID)
	}
	r.log.Debugw("message deleted", "chat_id", chatID, "message_id", messageID)
	return nil
}
