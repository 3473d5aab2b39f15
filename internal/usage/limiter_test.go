package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
)

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("store unreachable")
}
func (failingStore) Set(ctx context.Context, key, value string) error {
	return errors.New("store unreachable")
}
func (failingStore) Incr(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("store unreachable")
}
func (failingStore) Close() error { return nil }

func fixedLimiter(store CounterStore, at time.Time) *Limiter {
	l := NewLimiter(store, 500, 5000, true, zap.NewNop())
	l.now = func() time.Time { return at }
	return l
}

func TestCheckAllowsWhenDisabled(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 500, 5000, false, zap.NewNop())
	assert.True(t, l.Check(context.Background()).Allowed)
}

func TestCheckAllowsWithoutStore(t *testing.T) {
	l := NewLimiter(nil, 500, 5000, true, zap.NewNop())
	status := l.Check(context.Background())
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(500), status.DailyLimit)
}

func TestCheckFailsOpenOnStoreError(t *testing.T) {
	l := NewLimiter(failingStore{}, 500, 5000, true, zap.NewNop())
	assert.True(t, l.Check(context.Background()).Allowed)
}

func TestIncrementThenCheck(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	l := fixedLimiter(store, now)

	l.Increment(ctx)
	l.Increment(ctx)
	l.Increment(ctx)

	status := l.Check(ctx)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(3), status.DailyUsed)
	assert.Equal(t, int64(3), status.MonthlyUsed)
}

func TestDailyLimitBlocksWithReason(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, dailyKey, "500"))
	require.NoError(t, store.Set(ctx, dailyDateKey, "2026-03-14"))
	l := fixedLimiter(store, now)

	status := l.Check(ctx)
	assert.False(t, status.Allowed)
	assert.Equal(t, models.ErrorDailyLimit, status.Reason)
	assert.Equal(t, int64(500), status.DailyUsed)
}

func TestMonthlyLimitBlocksWithReason(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, monthlyKey, "5000"))
	require.NoError(t, store.Set(ctx, monthlyDateKey, "2026-03"))
	l := fixedLimiter(store, now)

	status := l.Check(ctx)
	assert.False(t, status.Allowed)
	assert.Equal(t, models.ErrorMonthlyLimit, status.Reason)
}

func TestDailyCheckedBeforeMonthly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, dailyKey, "500"))
	require.NoError(t, store.Set(ctx, dailyDateKey, "2026-03-14"))
	require.NoError(t, store.Set(ctx, monthlyKey, "5000"))
	require.NoError(t, store.Set(ctx, monthlyDateKey, "2026-03"))
	l := fixedLimiter(store, now)

	assert.Equal(t, models.ErrorDailyLimit, l.Check(ctx).Reason)
}

func TestStaleDailyStampTreatedAsZero(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	// Yesterday's counter sits at the limit.
	require.NoError(t, store.Set(ctx, dailyKey, "500"))
	require.NoError(t, store.Set(ctx, dailyDateKey, "2026-03-13"))
	l := fixedLimiter(store, time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC))

	status := l.Check(ctx)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(0), status.DailyUsed)
}

func TestIncrementAfterRolloverResetsToOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, dailyKey, "500"))
	require.NoError(t, store.Set(ctx, dailyDateKey, "2026-03-13"))
	l := fixedLimiter(store, time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC))

	l.Increment(ctx)

	count, err := store.Get(ctx, dailyKey)
	require.NoError(t, err)
	assert.Equal(t, "1", count)
	stamp, err := store.Get(ctx, dailyDateKey)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", stamp)
}

func TestMonthlyRolloverIndependentOfDaily(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	// Daily stamp is current, monthly stamp is last month.
	require.NoError(t, store.Set(ctx, dailyKey, "10"))
	require.NoError(t, store.Set(ctx, dailyDateKey, "2026-04-01"))
	require.NoError(t, store.Set(ctx, monthlyKey, "4999"))
	require.NoError(t, store.Set(ctx, monthlyDateKey, "2026-03"))
	l := fixedLimiter(store, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	status := l.Check(ctx)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(10), status.DailyUsed)
	assert.Equal(t, int64(0), status.MonthlyUsed)

	l.Increment(ctx)
	monthly, err := store.Get(ctx, monthlyKey)
	require.NoError(t, err)
	assert.Equal(t, "1", monthly)
	daily, err := store.Get(ctx, dailyKey)
	require.NoError(t, err)
	assert.Equal(t, "11", daily)
}

func TestUnparsableCounterTreatedAsZero(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, dailyKey, "garbage"))
	require.NoError(t, store.Set(ctx, dailyDateKey, "2026-03-14"))
	l := fixedLimiter(store, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	status := l.Check(ctx)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(0), status.DailyUsed)
}
