package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store/memstore"
)

func newChatRepo() (*ChatRepository, *memstore.Memory) {
	mem := memstore.New()
	return NewChatRepository(mem, zap.NewNop().Sugar()), mem
}

func TestCreatePrivateChat(t *testing.T) {
	repo, _ := newChatRepo()
	ctx := context.Background()

	chat := &models.Chat{ParticipantIDs: []string{"u1", "u2"}}
	if err := repo.Create(ctx, chat); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if chat.ID == "" {
		t.Errorf("Expected an auto-assigned id")
	}

	got, err := repo.GetByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsGroup {
		t.Errorf("Private chat flagged as group")
	}
}

func TestCreatePrivateChatNeedsTwoParticipants(t *testing.T) {
	repo, _ := newChatRepo()

	err := repo.Create(context.Background(), &models.Chat{ParticipantIDs: []string{"u1"}})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdatePreview(t *testing.T) {
	repo, _ := newChatRepo()
	ctx := context.Background()

	chat := &models.Chat{ID: "c1", ParticipantIDs: []string{"u1", "u2"}}
	repo.Create(ctx, chat)

	if err := repo.UpdatePreview(ctx, "c1", "m9", "see you", 5000); err != nil {
		t.Fatalf("UpdatePreview failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "c1")
	if got.LastMessageID != "m9" || got.LastMessageText != "see you" || got.LastMessageTimestamp != 5000 {
		t.Errorf("Preview not applied: %+v", got)
	}
	if len(got.ParticipantIDs) != 2 {
		t.Errorf("Preview patch touched participants: %v", got.ParticipantIDs)
	}
}

func TestUpdatePreviewMissingChat(t *testing.T) {
	repo, _ := newChatRepo()

	err := repo.UpdatePreview(context.Background(), "ghost", "m1", "hi", 1000)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
