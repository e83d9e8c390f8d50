package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpin/internal/domain/entity"
	"marketpin/internal/usecase"
)

type notificationFixture struct {
	directory    *fakeDirectory
	connectivity *fakeConnectivity
	repo         *memNotificationRepo
	svc          usecase.NotificationUsecase
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		directory:    newFakeDirectory(),
		connectivity: &fakeConnectivity{online: true},
		repo:         newMemNotificationRepo(),
	}
	f.svc = NewNotificationService(f.directory, f.connectivity, f.repo, testLogger())

	return f
}

func personalNote(id, userID string, createdAt time.Time) *entity.Notification {
	return &entity.Notification{
		ID:        id,
		UserID:    userID,
		Title:     "Submission update",
		Body:      "Your market was reviewed",
		Category:  entity.NotificationApproval,
		CreatedAt: createdAt,
	}
}

func broadcastNote(id string, createdAt time.Time) *entity.Notification {
	return &entity.Notification{
		ID:        id,
		Title:     "Season opening",
		Body:      "Spring markets are back",
		Category:  entity.NotificationBroadcast,
		CreatedAt: createdAt,
	}
}

func TestMerge_StampsBroadcasts(t *testing.T) {
	f := newNotificationFixture()
	f.directory.broadcasts["b1"] = broadcastNote("b1", time.Now())

	unread, err := f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "user-1", unread[0].UserID)
	assert.False(t, unread[0].IsRead)
}

func TestMerge_DedupPreservesReadFlag(t *testing.T) {
	f := newNotificationFixture()

	// Already cached and acknowledged locally.
	require.NoError(t, f.repo.Insert(context.Background(), &entity.Notification{
		ID:        "n1",
		UserID:    "user-1",
		Title:     "Original title",
		IsRead:    true,
		CreatedAt: time.Now().Add(-time.Hour),
	}))

	// The same ID arrives again remotely with different content.
	remote := personalNote("n1", "user-1", time.Now())
	remote.Title = "Rewritten title"
	f.directory.notifications["user-1"] = map[string]*entity.Notification{"n1": remote}

	unread, err := f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := f.repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)
	assert.Equal(t, "Original title", all[0].Title)
}

func TestMerge_OrdersUnreadNewestFirst(t *testing.T) {
	f := newNotificationFixture()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	f.directory.notifications["user-1"] = map[string]*entity.Notification{
		"old": personalNote("old", "user-1", base),
		"new": personalNote("new", "user-1", base.Add(2*time.Hour)),
	}
	f.directory.broadcasts["mid"] = broadcastNote("mid", base.Add(time.Hour))

	unread, err := f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, "new", unread[0].ID)
	assert.Equal(t, "mid", unread[1].ID)
	assert.Equal(t, "old", unread[2].ID)
}

func TestMerge_OfflineReturnsCachedUnread(t *testing.T) {
	f := newNotificationFixture()
	f.connectivity.online = false

	require.NoError(t, f.repo.Insert(context.Background(), personalNote("n1", "user-1", time.Now())))
	f.directory.broadcasts["b1"] = broadcastNote("b1", time.Now())

	unread, err := f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n1", unread[0].ID)
}

func TestMerge_Idempotent(t *testing.T) {
	f := newNotificationFixture()
	f.directory.broadcasts["b1"] = broadcastNote("b1", time.Now())
	f.directory.notifications["user-1"] = map[string]*entity.Notification{
		"n1": personalNote("n1", "user-1", time.Now()),
	}

	for i := 0; i < 3; i++ {
		_, err := f.svc.Merge(context.Background(), "user-1")
		require.NoError(t, err)
	}

	all, err := f.repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkRead_Explicit(t *testing.T) {
	f := newNotificationFixture()
	require.NoError(t, f.repo.Insert(context.Background(), personalNote("n1", "user-1", time.Now())))

	// Viewing the list never flips the flag.
	unread, err := f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 1)

	unread, err = f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, f.svc.MarkRead(context.Background(), "n1"))

	unread, err = f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkRead_Unknown(t *testing.T) {
	f := newNotificationFixture()

	err := f.svc.MarkRead(context.Background(), "missing")
	assert.Error(t, err)
}

func TestHasUnread_LocalShortCircuit(t *testing.T) {
	f := newNotificationFixture()
	f.connectivity.online = false
	require.NoError(t, f.repo.Insert(context.Background(), personalNote("n1", "user-1", time.Now())))

	unread, err := f.svc.HasUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, unread)
}

func TestHasUnread_OnlineBroadcastCheck(t *testing.T) {
	f := newNotificationFixture()
	f.directory.broadcasts["b1"] = broadcastNote("b1", time.Now())

	unread, err := f.svc.HasUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, unread)

	// Once merged and acknowledged, the indicator goes dark.
	_, err = f.svc.Merge(context.Background(), "user-1")
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkRead(context.Background(), "b1"))

	unread, err = f.svc.HasUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, unread)
}

func TestHasUnread_OfflineIgnoresBroadcasts(t *testing.T) {
	f := newNotificationFixture()
	f.connectivity.online = false
	f.directory.broadcasts["b1"] = broadcastNote("b1", time.Now())

	unread, err := f.svc.HasUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, unread)
}
