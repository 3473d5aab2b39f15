// Package usage enforces the coarse global request quotas. Counters live in a
// shared external store and are only honored while their date stamp matches
// the current day or month; a stale stamp means the counter restarts. The
// check/increment pair is deliberately not atomic: slight overshoot under
// concurrent requests is accepted in exchange for not paying for locking.
package usage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
)

// ErrNotFound is returned by counter stores for missing keys.
var ErrNotFound = errors.New("usage: key not found")

// CounterStore is the shared external key-value store the counters live in.
type CounterStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// Fixed global keys: this is a deployment-wide throttle, not per-user quota.
const (
	dailyKey       = "coach:usage:daily"
	monthlyKey     = "coach:usage:monthly"
	dailyDateKey   = "coach:usage:daily:date"
	monthlyDateKey = "coach:usage:monthly:date"
)

// Limiter gates request admission against daily and monthly counters.
// A nil store disables limiting entirely (fail-open).
type Limiter struct {
	store        CounterStore
	dailyLimit   int64
	monthlyLimit int64
	enabled      bool
	logger       *zap.Logger
	now          func() time.Time
}

func NewLimiter(store CounterStore, dailyLimit, monthlyLimit int64, enabled bool, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:        store,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		enabled:      enabled,
		logger:       logger,
		now:          time.Now,
	}
}

func (l *Limiter) today() string {
	return l.now().UTC().Format("2006-01-02")
}

func (l *Limiter) month() string {
	return l.now().UTC().Format("2006-01")
}

func (l *Limiter) allowedStatus(daily, monthly int64) models.UsageStatus {
	return models.UsageStatus{
		Allowed:      true,
		DailyUsed:    daily,
		DailyLimit:   l.dailyLimit,
		MonthlyUsed:  monthly,
		MonthlyLimit: l.monthlyLimit,
	}
}

// Check reports whether the next request may proceed. Daily is checked before
// monthly, each blocking with its own reason. Any store problem allows the
// request with a warning: availability beats strict enforcement here.
func (l *Limiter) Check(ctx context.Context) models.UsageStatus {
	if !l.enabled || l.store == nil {
		return l.allowedStatus(0, 0)
	}

	daily, err := l.getCount(ctx, dailyKey, dailyDateKey, l.today())
	if err != nil {
		l.logger.Warn("Usage limit check failed, allowing request", zap.Error(err))
		return l.allowedStatus(0, 0)
	}
	monthly, err := l.getCount(ctx, monthlyKey, monthlyDateKey, l.month())
	if err != nil {
		l.logger.Warn("Usage limit check failed, allowing request", zap.Error(err))
		return l.allowedStatus(0, 0)
	}

	status := l.allowedStatus(daily, monthly)
	if daily >= l.dailyLimit {
		status.Allowed = false
		status.Reason = models.ErrorDailyLimit
		return status
	}
	if monthly >= l.monthlyLimit {
		status.Allowed = false
		status.Reason = models.ErrorMonthlyLimit
		return status
	}
	return status
}

// getCount reads a counter and its stamp; a stamp mismatch means rollover and
// the counter is treated as zero.
func (l *Limiter) getCount(ctx context.Context, countKey, dateKey, current string) (int64, error) {
	stamp, err := l.store.Get(ctx, dateKey)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if stamp != current {
		return 0, nil
	}

	raw, err := l.store.Get(ctx, countKey)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Treat an unparsable counter like an absent one.
		return 0, nil
	}
	return count, nil
}

// Increment bumps both counters, re-stamping and resetting to 1 on rollover.
// Errors are logged and swallowed; counting is best-effort.
func (l *Limiter) Increment(ctx context.Context) {
	if !l.enabled || l.store == nil {
		return
	}
	if err := l.bump(ctx, dailyKey, dailyDateKey, l.today()); err != nil {
		l.logger.Warn("Failed to increment daily usage counter", zap.Error(err))
	}
	if err := l.bump(ctx, monthlyKey, monthlyDateKey, l.month()); err != nil {
		l.logger.Warn("Failed to increment monthly usage counter", zap.Error(err))
	}
}

func (l *Limiter) bump(ctx context.Context, countKey, dateKey, current string) error {
	stamp, err := l.store.Get(ctx, dateKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if stamp != current {
		if err := l.store.Set(ctx, countKey, "1"); err != nil {
			return err
		}
		return l.store.Set(ctx, dateKey, current)
	}
	_, err = l.store.Incr(ctx, countKey)
	return err
}
