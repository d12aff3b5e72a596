package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessage(t *testing.T, sessionID string, seq int, contents string) *core.Message {
	t.Helper()
	return &core.Message{
		Id:        core.MessageID(sessionID, seq, contents),
		SessionId: sessionID,
		Role:      core.RoleHuman,
		Contents:  contents,
		Source:    "claude",
		Project:   "infra",
		Path:      "/home/user/infra",
		Timestamp: time.Now().UTC().Add(-time.Minute),
	}
}

func TestMessageRepository_UpsertAndGet(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	message := newTestMessage(t, "session-1", 0, "How do I rotate credentials?")

	require.NoError(t, stores.Messages.UpsertMessages(ctx, message))

	got, err := stores.Messages.GetMessage(ctx, message.Id)
	require.NoError(t, err)
	assert.Equal(t, message.Contents, got.Contents)
	assert.Equal(t, len(message.Contents), got.ContentLength)
	assert.False(t, got.InsertedAt.IsZero())
}

func TestMessageRepository_UpsertIsIdempotent(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	message := newTestMessage(t, "session-1", 0, "hello there general kenobi")

	require.NoError(t, stores.Messages.UpsertMessages(ctx, message))
	require.NoError(t, stores.Messages.UpsertMessages(ctx, message))

	all, err := stores.Messages.ListMessages(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMessageRepository_GetMessage_NotFound(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	_, err = stores.Messages.GetMessage(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMessageRepository_ListMessages_CursorPagination(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		msg := newTestMessage(t, "session-1", i, fmt.Sprintf("message number %d with some padding", i))
		require.NoError(t, stores.Messages.UpsertMessages(ctx, msg))
	}

	// Walk all messages in pages of 3, asserting ascending ID order
	// and no duplicates across pages.
	var cursor core.ID
	seen := make(map[core.ID]bool)
	total := 0
	for {
		page, err := stores.Messages.ListMessages(ctx, cursor, 3)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, msg := range page {
			assert.Greater(t, msg.Id, cursor)
			assert.False(t, seen[msg.Id], "duplicate message across pages")
			seen[msg.Id] = true
			cursor = msg.Id
		}
		total += len(page)
		if len(page) < 3 {
			break
		}
	}
	assert.Equal(t, 10, total)
}

func TestMessageRepository_ListSessionMessageIDs(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	m1 := newTestMessage(t, "session-a", 0, "first message in session a")
	m2 := newTestMessage(t, "session-a", 1, "second message in session a")
	m3 := newTestMessage(t, "session-b", 0, "only message in session b")
	require.NoError(t, stores.Messages.UpsertMessages(ctx, m1, m2, m3))

	ids, err := stores.Messages.ListSessionMessageIDs(ctx, "session-a", 0, 10)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, m1.Id)
	assert.Contains(t, ids, m2.Id)
	assert.NotContains(t, ids, m3.Id)

	// Ascending order.
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestMessageRepository_ListProjectMessageIDs(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	m1 := newTestMessage(t, "session-a", 0, "message in project infra here")
	m2 := newTestMessage(t, "session-b", 0, "message in another project entirely")
	m2.Project = "webapp"
	require.NoError(t, stores.Messages.UpsertMessages(ctx, m1, m2))

	ids, err := stores.Messages.ListProjectMessageIDs(ctx, "infra", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{m1.Id}, ids)
}

func TestMessageRepository_ListProjectMessageIDs_NoPrefixBleed(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	m1 := newTestMessage(t, "session-a", 0, "message in the base project name")
	m2 := newTestMessage(t, "session-b", 0, "message in the extended project name")
	m2.Project = "infra-ops"
	require.NoError(t, stores.Messages.UpsertMessages(ctx, m1, m2))

	ids, err := stores.Messages.ListProjectMessageIDs(ctx, "infra", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{m1.Id}, ids)
}

func TestMessageRepository_UpsertInvalidMessage(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	err = stores.Messages.UpsertMessages(context.Background(), &core.Message{
		Id:        core.ID(1),
		SessionId: "session-1",
		Role:      core.RoleHuman,
		Timestamp: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, core.ErrInvalidMessage)
}
