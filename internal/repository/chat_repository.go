package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store"
)

// ChatRepository covers the chat document itself: creation of private chats
// and the denormalized last-message preview. Group-linked chats are created
// and maintained by the group repository's cascades.
type ChatRepository struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewChatRepository(st store.Store, log *zap.SugaredLogger) *ChatRepository {
	return &ChatRepository{store: st, log: log}
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	if id == "" {
		return nil, apperr.InvalidArgumentf("chat id must not be empty")
	}
	doc, err := r.store.Get(ctx, store.Chats, id)
	if err != nil {
		return nil, apperr.FromStore(err, "get chat %s", id)
	}
	var c models.Chat
	if err := store.Decode(doc, &c); err != nil {
		return nil, apperr.Storef(err, "decode chat %s", id)
	}
	return &c, nil
}

// Create writes a private chat. A non-group chat needs at least two
// participants.
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	if chat == nil {
		return apperr.InvalidArgumentf("chat must not be nil")
	}
	if !chat.IsGroup && len(chat.ParticipantIDs) < 2 {
		return apperr.InvalidArgumentf("private chat needs at least two participants")
	}
	if chat.ID == "" {
		chat.ID = r.store.NewID()
	}
	if chat.UpdatedAt == 0 {
		chat.UpdatedAt = nowMillis()
	}
	doc, err := store.Encode(chat)
	if err != nil {
		return apperr.Storef(err, "encode chat %s", chat.ID)
	}
	if err := r.store.Set(ctx, store.Chats, chat.ID, doc); err != nil {
		return apperr.FromStore(err, "create chat %s", chat.ID)
	}
	r.log.Debugw("chat created", "chat_id", chat.ID, "is_group", chat.IsGroup)
	return nil
}

// UpdatePreview refreshes the chat's denormalized last-message fields.
func (r *ChatRepository) UpdatePreview(ctx context.Context, chatID, messageID, text string, timestamp int64) error {
	if chatID == "" {
		return apperr.InvalidArgumentf("chat id must not be empty")
	}
	partial := bson.M{
		"last_message_id":        messageID,
		"last_message_text":      text,
		"last_message_timestamp": timestamp,
		"updated_at":             nowMillis(),
	}
	if err := r.store.Patch(ctx, store.Chats, chatID, partial); err != nil {
		return apperr.FromStore(err, "update preview of chat %s", chatID)
	}
	return nil
}
