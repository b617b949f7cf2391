package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/folderplay/internal/state"
)

// connectTestStore connects to the server named by FOLDERPLAY_TEST_REDIS.
func connectTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("FOLDERPLAY_TEST_REDIS")
	if addr == "" {
		t.Skip("FOLDERPLAY_TEST_REDIS not set")
	}
	s, err := Connect(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKey(t *testing.T) {
	assert.Equal(t, "folderplay:progress:abc", key("abc"))
}

func TestStore_RoundTrip(t *testing.T) {
	s := connectTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { _ = s.DeleteProgress(context.Background(), id) })

	got, err := s.GetProgress(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := state.ProgressRow{PlaylistID: id, TrackIndex: 3, PositionMS: 9000, TrackPath: "/m/4.mp3", SavedAtMS: 77}
	require.NoError(t, s.SaveProgress(ctx, want))

	got, err = s.GetProgress(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	require.NoError(t, s.DeleteProgress(ctx, id))
	got, err = s.GetProgress(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
