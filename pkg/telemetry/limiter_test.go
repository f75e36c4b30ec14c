package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterStore_Basic(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	limiter := store.GetLimiter("sensor-A")
	if limiter == nil {
		t.Fatal("expected limiter, got nil")
	}
	if limiter.Limit() != 1 {
		t.Errorf("expected limit 1, got %v", limiter.Limit())
	}
	assert.Equal(t, 1, store.Len())
}

func TestRateLimiterStore_CustomLimit(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	store.SetLimiter("sensor-B", 5, 10)
	limiter := store.GetLimiter("sensor-B")

	if limiter.Limit() != 5 {
		t.Errorf("expected limit 5, got %v", limiter.Limit())
	}
	if limiter.Burst() != 10 {
		t.Errorf("expected burst 10, got %v", limiter.Burst())
	}
}

func TestRateLimiterStore_Concurrency(t *testing.T) {
	store := NewRateLimiterStore(10, 5)
	deviceName := uuid.NewString()

	var wg sync.WaitGroup

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.GetLimiter(deviceName) == nil {
				t.Error("expected limiter, got nil")
			}
		}()
	}

	wg.Wait()

	// one bucket no matter how many goroutines raced to create it
	assert.Equal(t, 1, store.Len())
}

func TestRateLimiter_Enforcement(t *testing.T) {
	store := NewRateLimiterStore(2, 2) // 2 events/sec

	limiter := store.GetLimiter(uuid.NewString())

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("expected first two calls to be allowed")
	}

	if limiter.Allow() {
		t.Error("expected third call to be rate limited")
	}

	// Wait for refill
	time.Sleep(600 * time.Millisecond)
	if !limiter.Allow() {
		t.Error("expected one token to be available after refill")
	}
}

func TestCheckDeviceLimiter(t *testing.T) {
	tel := &Telemetry{}
	for range 5 {
		assert.True(t, tel.CheckDeviceLimiter("sensor-A"), "no store means no limit")
	}

	tel.WithLimiters(NewRateLimiterStore(0, 1))
	assert.True(t, tel.CheckDeviceLimiter("sensor-A"))
	assert.False(t, tel.CheckDeviceLimiter("sensor-A"))
	// buckets are per device name
	assert.True(t, tel.CheckDeviceLimiter("sensor-B"))
}

func TestAdmitWrite(t *testing.T) {
	store := NewRateLimiterStore(0, 1)
	tel := &Telemetry{Keys: NewKeyChecker("5588")}
	tel.WithLimiters(store)

	for range 3 {
		assert.True(t, tel.AdmitWrite("0000", "sensor-A"), "wrong key is left to the operation")
		assert.True(t, tel.AdmitWrite("", "sensor-A"))
	}
	assert.Equal(t, 0, store.Len(), "wrong key must not create a bucket")

	assert.True(t, tel.AdmitWrite("5588", ""), "missing name is left to validation")
	assert.Equal(t, 0, store.Len())

	assert.True(t, tel.AdmitWrite("5588", "sensor-A"))
	assert.False(t, tel.AdmitWrite("5588", "sensor-A"))
	assert.Equal(t, 1, store.Len())
}
