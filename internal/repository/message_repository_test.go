package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store"
	"github.com/fathima-sithara/chat-data/internal/store/memstore"
)

func newMessageRepo() (*MessageRepository, *memstore.Memory) {
	mem := memstore.New()
	return NewMessageRepository(mem, zap.NewNop().Sugar()), mem
}

func sendMsg(t *testing.T, repo *MessageRepository, chatID, id string, ts int64) *models.Message {
	t.Helper()
	msg := &models.Message{ID: id, ChatID: chatID, SenderID: "u1", Content: "hi", Timestamp: ts}
	if err := repo.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	return msg
}

func TestMessagesSortedByTimestamp(t *testing.T) {
	repo, _ := newMessageRepo()
	ctx := context.Background()

	// Written out of timestamp order on purpose.
	sendMsg(t, repo, "c1", "m3", 3000)
	sendMsg(t, repo, "c1", "m1", 1000)
	sendMsg(t, repo, "c1", "m2", 2000)

	msgs, err := repo.GetByChatID(ctx, "c1")
	if err != nil {
		t.Fatalf("GetByChatID failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []int64{1000, 2000, 3000} {
		if msgs[i].Timestamp != want {
			t.Errorf("Position %d: expected timestamp %d, got %d", i, want, msgs[i].Timestamp)
		}
	}
}

func TestTimestampTiesKeepInsertionOrder(t *testing.T) {
	repo, _ := newMessageRepo()

	sendMsg(t, repo, "c1", "first", 1000)
	sendMsg(t, repo, "c1", "second", 1000)
	sendMsg(t, repo, "c1", "third", 1000)

	msgs, _ := repo.GetByChatID(context.Background(), "c1")
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, msgs[i].ID)
		}
	}
}

func TestSendFillsDefaults(t *testing.T) {
	repo, _ := newMessageRepo()

	msg := &models.Message{ChatID: "c1", SenderID: "u1", Content: "hi"}
	if err := repo.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msg.ID == "" {
		t.Errorf("Expected an auto-assigned id")
	}
	if msg.DeliveryStatus != models.StatusSent {
		t.Errorf("Expected status 'sent', got %q", msg.DeliveryStatus)
	}
	if msg.MessageType != models.MessageTypeText {
		t.Errorf("Expected type 'text', got %q", msg.MessageType)
	}
	if msg.Timestamp == 0 {
		t.Errorf("Expected an auto-assigned timestamp")
	}
}

func TestSendInvalidArguments(t *testing.T) {
	repo, mem := newMessageRepo()
	ctx := context.Background()

	calls := []struct {
		name string
		err  error
	}{
		{"nil message", repo.Send(ctx, nil)},
		{"empty chat id", repo.Send(ctx, &models.Message{SenderID: "u1"})},
		{"bad type", repo.Send(ctx, &models.Message{ChatID: "c1", MessageType: "sticker"})},
		{"bad status", repo.Send(ctx, &models.Message{ChatID: "c1", DeliveryStatus: "read"})},
	}
	for _, c := range calls {
		if !errors.Is(c.err, apperr.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", c.name, c.err)
		}
	}
	if mem.Len(store.ChatMessages("c1")) != 0 {
		t.Errorf("Invalid sends left documents behind")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	repo, _ := newMessageRepo()
	ctx := context.Background()

	msg := sendMsg(t, repo, "c1", "m1", 1000)
	path := "c1/" + msg.ID

	for _, status := range []models.DeliveryStatus{models.StatusDelivered, models.StatusSeen} {
		if err := repo.UpdateStatus(ctx, path, status); err != nil {
			t.Fatalf("UpdateStatus(%s) failed: %v", status, err)
		}
		msgs, _ := repo.GetByChatID(ctx, "c1")
		if msgs[0].DeliveryStatus != status {
			t.Errorf("Expected status %q, got %q", status, msgs[0].DeliveryStatus)
		}
	}
}

// The status write is deliberately permissive: it accepts any valid status,
// including moving backwards from seen to sent. Forward-only progression is
// not enforced anywhere in this layer.
func TestStatusBackwardsWriteIsAccepted(t *testing.T) {
	repo, _ := newMessageRepo()
	ctx := context.Background()

	msg := sendMsg(t, repo, "c1", "m1", 1000)
	path := "c1/" + msg.ID

	if err := repo.UpdateStatus(ctx, path, models.StatusSeen); err != nil {
		t.Fatalf("UpdateStatus(seen) failed: %v", err)
	}
	if err := repo.UpdateStatus(ctx, path, models.StatusSent); err != nil {
		t.Fatalf("Backwards status write should be accepted, got: %v", err)
	}
	msgs, _ := repo.GetByChatID(ctx, "c1")
	if msgs[0].DeliveryStatus != models.StatusSent {
		t.Errorf("Expected last-written status 'sent', got %q", msgs[0].DeliveryStatus)
	}
}

func TestDeleteMessagePreservesOrder(t *testing.T) {
	repo, _ := newMessageRepo()
	ctx := context.Background()

	sendMsg(t, repo, "c1", "m1", 1000)
	sendMsg(t, repo, "c1", "m2", 2000)
	sendMsg(t, repo, "c1", "m3", 3000)

	if err := repo.Delete(ctx, "c1/m2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	msgs, _ := repo.GetByChatID(ctx, "c1")
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[1].ID != "m3" {
		t.Errorf("Expected [m1 m3], got [%s %s]", msgs[0].ID, msgs[1].ID)
	}
}

func TestMalformedQualifiedID(t *testing.T) {
	repo, mem := newMessageRepo()
	ctx := context.Background()

	sendMsg(t, repo, "c1", "m1", 1000)

	for _, qid := range []string{"", "noslash", "/m1", "c1/"} {
		if err := repo.UpdateStatus(ctx, qid, models.StatusSeen); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("UpdateStatus(%q): expected ErrInvalidArgument, got %v", qid, err)
		}
		if err := repo.Delete(ctx, qid); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("Delete(%q): expected ErrInvalidArgument, got %v", qid, err)
		}
	}

	if mem.Len(store.ChatMessages("c1")) != 1 {
		t.Errorf("Malformed qualifiers changed state")
	}
	msgs, _ := repo.GetByChatID(ctx, "c1")
	if msgs[0].DeliveryStatus != models.StatusSent {
		t.Errorf("Malformed qualifier changed a status")
	}
}

func TestStatusAndDeleteMissingMessage(t *testing.T) {
	repo, _ := newMessageRepo()
	ctx := context.Background()

	if err := repo.UpdateStatus(ctx, "c1/ghost", models.StatusSeen); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "c1/ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
