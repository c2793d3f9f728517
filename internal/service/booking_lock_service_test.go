package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestBookingLockKey(t *testing.T) {
	doctorID := uuid.MustParse("7d1c5a4e-8d4b-4f4a-9a35-1c2f0b6d9e11")
	date := time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC)

	if got := BookingLockKey(doctorID, date); got != "appointment:lock:7d1c5a4e-8d4b-4f4a-9a35-1c2f0b6d9e11:2024-01-10" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestLocalBookingLocker_SerializesSameDay(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), 100*time.Millisecond)
	defer locker.Stop()

	ctx := context.Background()
	doctorID := uuid.New()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	release, err := locker.Acquire(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := locker.Acquire(ctx, doctorID, date); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}

	otherRelease, err := locker.Acquire(ctx, doctorID, date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("another day must not be blocked: %v", err)
	}
	otherRelease()

	release()

	release, err = locker.Acquire(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release()
}

func TestLocalBookingLocker_WaitsForRelease(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), time.Second)
	defer locker.Stop()

	ctx := context.Background()
	doctorID := uuid.New()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	release, err := locker.Acquire(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		release()
	}()

	second, err := locker.Acquire(ctx, doctorID, date)
	if err != nil {
		t.Fatalf("second acquire should succeed after release: %v", err)
	}
	second()
}

func TestLocalBookingLocker_CleanupStaleMutexes(t *testing.T) {
	locker := NewLocalBookingLocker(newTestLogger(), 0)
	defer locker.Stop()

	release, _ := locker.Acquire(context.Background(), uuid.New(), time.Now())
	if cleaned := locker.cleanupStaleMutexes(time.Now().Add(time.Hour)); cleaned != 0 {
		t.Fatal("held mutex must not be cleaned")
	}
	release()

	if cleaned := locker.cleanupStaleMutexes(time.Now().Add(time.Hour)); cleaned != 1 {
		t.Fatalf("expected 1 cleaned mutex, got %d", cleaned)
	}
}

func TestRedisBookingLocker_ReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	locker := NewRedisBookingLocker(client, newTestLogger(), time.Second, 100*time.Millisecond)
	_, err := locker.Acquire(context.Background(), uuid.New(), time.Now())
	if err == nil || errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected connection error, got %v", err)
	}
}
