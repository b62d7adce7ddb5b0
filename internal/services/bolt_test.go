package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
	"github.com/MegaGrindStone/travel-web-ui/internal/services"
)

func newTestBoltDB(t *testing.T) services.BoltDB {
	t.Helper()

	db, err := services.NewBoltDB(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewBoltDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBoltDBChats(t *testing.T) {
	ctx := context.Background()
	db := newTestBoltDB(t)

	firstID, err := db.AddChat(ctx, models.Chat{ID: "a", Title: "Zoo trip"})
	if err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	secondID, err := db.AddChat(ctx, models.Chat{ID: "b"})
	if err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	if firstID == secondID {
		t.Fatalf("AddChat() returned duplicate id %q", firstID)
	}

	chats, err := db.Chats(ctx)
	if err != nil {
		t.Fatalf("Chats() error = %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("Chats() returned %d chats, want 2", len(chats))
	}
	if chats[0].ID != secondID || chats[1].ID != firstID {
		t.Errorf("Chats() order = [%s %s], want newest first", chats[0].ID, chats[1].ID)
	}
	if chats[1].Title != "Zoo trip" {
		t.Errorf("Chats() title = %q, want %q", chats[1].Title, "Zoo trip")
	}
}

func TestBoltDBMessages(t *testing.T) {
	ctx := context.Background()
	db := newTestBoltDB(t)

	chatID, err := db.AddChat(ctx, models.Chat{ID: "chat"})
	if err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	userID, err := db.AddMessage(ctx, chatID, models.Message{ID: "u", Role: models.RoleUser, Content: "hello", Timestamp: now})
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	aiID, err := db.AddMessage(ctx, chatID, models.Message{ID: "a", Role: models.RoleAssistant, Pending: true, Timestamp: now})
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	err = db.UpdateMessage(ctx, chatID, models.Message{ID: aiID, Role: models.RoleAssistant, Content: "Open daily", Timestamp: now})
	if err != nil {
		t.Fatalf("UpdateMessage() error = %v", err)
	}

	msgs, err := db.Messages(ctx, chatID)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Messages() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != userID || msgs[0].Content != "hello" {
		t.Errorf("Messages()[0] = %+v, want user message", msgs[0])
	}
	if msgs[1].Pending || msgs[1].Content != "Open daily" {
		t.Errorf("Messages()[1] = %+v, want updated reply", msgs[1])
	}
	if !msgs[1].Timestamp.Equal(now) {
		t.Errorf("Messages()[1] timestamp = %v, want %v", msgs[1].Timestamp, now)
	}
}

func TestBoltDBUnknownChat(t *testing.T) {
	ctx := context.Background()
	db := newTestBoltDB(t)

	msgs, err := db.Messages(ctx, "missing")
	if err != nil || len(msgs) != 0 {
		t.Errorf("Messages() on unknown chat = %v, %v, want no messages", msgs, err)
	}

	_, err = db.AddMessage(ctx, "missing", models.Message{ID: "x"})
	if !errors.Is(err, services.ErrChatNotFound) {
		t.Errorf("AddMessage() on unknown chat error = %v, want ErrChatNotFound", err)
	}
}
