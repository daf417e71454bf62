package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage/memory"
)

func TestBroadcastEventCreated(t *testing.T) {
	notify := NewNotifyService(memory.NewDocumentStorage(), zap.NewNop().Sugar())

	notify.BroadcastEventCreated(&models.Event{
		ID:    1,
		Title: "Open day",
		Date:  time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	})

	// The fan-out runs on its own goroutine.
	require.Eventually(t, func() bool {
		got, err := notify.ListForUser(context.Background(), 42, 10)
		return err == nil && len(got) == 1
	}, time.Second, 10*time.Millisecond)

	got, err := notify.ListForUser(context.Background(), 42, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].UserID)
	assert.Contains(t, got[0].Message, "Open day")
}

func TestTargetedNotificationScoping(t *testing.T) {
	notify := NewNotifyService(memory.NewDocumentStorage(), zap.NewNop().Sugar())
	ctx := context.Background()

	userID := int64(7)
	_, err := notify.Create(ctx, models.Notification{UserID: &userID, Title: "Grade posted"})
	require.NoError(t, err)

	mine, err := notify.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := notify.ListForUser(ctx, 8, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
