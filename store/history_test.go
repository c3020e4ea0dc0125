package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagesift/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecentNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		url := fmt.Sprintf("https://example.com/%d", i)
		require.NoError(t, s.Add(ctx, "alice", url, base.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, s.Add(ctx, "bob", "https://bob.example.com", base.Add(time.Hour)))

	entries, err := s.Recent(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, entries, DefaultRecentLimit)

	assert.Equal(t, "https://example.com/6", entries[0].URL)
	assert.Equal(t, "https://example.com/2", entries[4].URL)
	assert.True(t, entries[0].SearchedAt.Equal(base.Add(6*time.Minute)))
	for _, e := range entries {
		assert.Equal(t, "alice", e.User)
	}

	entries, err = s.Recent(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStore_SameTimestampNewestInsertFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, url := range []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"} {
		require.NoError(t, s.Add(ctx, "alice", url, at))
	}

	entries, err := s.Recent(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "https://c.example.com", entries[0].URL)
	assert.Equal(t, "https://b.example.com", entries[1].URL)
	assert.Equal(t, "https://a.example.com", entries[2].URL)
}

func TestStore_EmptyHistory(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.Recent(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_AddValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Add(ctx, "", "https://example.com", time.Now())
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))

	err = s.Add(ctx, "alice", "", time.Now())
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, clampLimit(0, 5, 100))
	assert.Equal(t, 5, clampLimit(-3, 5, 100))
	assert.Equal(t, 100, clampLimit(1000, 5, 100))
	assert.Equal(t, 10, clampLimit(10, 5, 100))
}
