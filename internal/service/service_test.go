package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/realtime"
	"github.com/hisab-io/hisab/internal/storage"
	"github.com/hisab-io/hisab/internal/storage/sqlite"
)

// newTestStore creates a SQLite store backed by a temp file.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "hisab-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return store
}

func createTestUser(t *testing.T, store storage.Store, email, username string) *models.User {
	t.Helper()

	user := models.NewUser(email, username, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestGroup(t *testing.T, store storage.Store, creatorID string, memberIDs ...string) *models.Group {
	t.Helper()

	group, err := NewGroupService(store).CreateGroup(context.Background(), creatorID, "Test Group", "", "", memberIDs)
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

// recordedEvent is one captured broadcast.
type recordedEvent struct {
	groupID string
	event   realtime.Event
	payload interface{}
}

// recordingBroadcaster captures broadcasts for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(groupID string, event realtime.Event, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{groupID: groupID, event: event, payload: payload})
}

func (b *recordingBroadcaster) recorded() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent(nil), b.events...)
}
