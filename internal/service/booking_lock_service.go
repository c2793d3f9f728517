package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockNotAcquired is returned when another request holds the doctor's day for longer than the wait budget
var ErrLockNotAcquired = errors.New("booking slot is being changed by another request")

// releaseLockScript deletes the lock only when it still holds our token,
// so an expired lock re-acquired by someone else is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisBookingLockKeyPrefix = "appointment:lock:"

	lockRetryInterval  = 50 * time.Millisecond
	lockReleaseTimeout = 2 * time.Second

	// Interval for cleaning up stale local mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// BookingLocker serializes schedule changes for one doctor on one date.
// The returned release func must be called once the change is committed or abandoned.
type BookingLocker interface {
	Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time) (release func(), err error)
}

// BookingLockKey returns the lock key for a doctor's day
func BookingLockKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisBookingLockKeyPrefix, doctorID, entity.FormatDate(date))
}

// =============================================================================
// Redis locker
// =============================================================================

// RedisBookingLocker is a distributed lock shared by every service replica.
// SET NX PX with a random token; the TTL bounds how long a crashed holder can block others.
type RedisBookingLocker struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
	wait        time.Duration
}

func NewRedisBookingLocker(redisClient *redis.Client, log *logrus.Logger, ttl, wait time.Duration) *RedisBookingLocker {
	return &RedisBookingLocker{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		wait:        wait,
	}
}

func (l *RedisBookingLocker) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time) (func(), error) {
	key := BookingLockKey(doctorID, date)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.log.Warnf("Failed to acquire booking lock %s: %+v", key, err)
			return nil, fmt.Errorf("acquire booking lock %s: %w", key, err)
		}
		if ok {
			l.log.Debugf("Acquired booking lock %s", key)
			return func() { l.release(key, token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// release runs on its own context so a cancelled request still frees the lock
func (l *RedisBookingLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
	defer cancel()

	if err := releaseLockScript.Run(ctx, l.redisClient, []string{key}, token).Err(); err != nil {
		l.log.Warnf("Failed to release booking lock %s: %+v", key, err)
		return
	}
	l.log.Debugf("Released booking lock %s", key)
}

// =============================================================================
// Local locker
// =============================================================================

// LocalBookingLocker serializes changes inside a single process.
// Used when Redis is disabled; the database exclusion constraint still guards other replicas.
type LocalBookingLocker struct {
	log  *logrus.Logger
	wait time.Duration

	// Per doctor-day mutex
	keyMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewLocalBookingLocker starts a background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewLocalBookingLocker(log *logrus.Logger, wait time.Duration) *LocalBookingLocker {
	l := &LocalBookingLocker{
		log:      log,
		wait:     wait,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupMutexMapLoop()

	return l
}

func (l *LocalBookingLocker) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time) (func(), error) {
	key := BookingLockKey(doctorID, date)
	mt := l.getMutex(key)
	deadline := time.Now().Add(l.wait)

	for !mt.mu.TryLock() {
		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		mt.lastUsed.Store(time.Now().Unix())
		mt.mu.Unlock()
	}, nil
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *LocalBookingLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalBookingLocker stopped")
	}
}

func (l *LocalBookingLocker) getMutex(key string) *mutexWithTimestamp {
	mt, _ := l.keyMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *LocalBookingLocker) cleanupMutexMapLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff.
// lastUsed is checked while holding the lock so a concurrent Acquire is never dropped.
func (l *LocalBookingLocker) cleanupStaleMutexes(cutoff time.Time) int {
	var cleaned int

	l.keyMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff.Unix() {
				l.keyMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale booking mutexes", cleaned)
	}
	return cleaned
}
