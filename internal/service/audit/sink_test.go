package audit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"afyalink/internal/domain"
	"afyalink/tests/mocks"
)

func testRecord(entityID string) *domain.AuditLog {
	return &domain.AuditLog{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		UserRole:    "nurse",
		Action:      domain.ActionUpdate,
		EntityType:  "PATIENT",
		EntityID:    entityID,
		Description: "test record",
		Success:     true,
	}
}

func TestSink_DrainsInOrder(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)

	release := make(chan struct{})
	var mu sync.Mutex
	var order []string
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-release
		rec := args.Get(1).(*domain.AuditLog)
		mu.Lock()
		order = append(order, rec.EntityID)
		mu.Unlock()
	}).Return(nil)

	sink.Enqueue(testRecord("first"))
	sink.Enqueue(testRecord("second"))
	sink.Enqueue(testRecord("third"))
	close(release)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3 && sink.PendingCount() == 0
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"first", "second", "third"}, order)
	mu.Unlock()
}

func TestSink_EnqueueNeverBlocksOnSlowStore(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)

	release := make(chan struct{})
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-release
	}).Return(nil)

	start := time.Now()
	for i := 0; i < 5; i++ {
		sink.Enqueue(testRecord("queued"))
	}
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 100*time.Millisecond)
	assert.GreaterOrEqual(t, sink.PendingCount(), 4)

	close(release)
	assert.Eventually(t, func() bool {
		return sink.PendingCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSink_SingleWorkerDrains(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)

	var inFlight, maxInFlight int32
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			prev := atomic.LoadInt32(&maxInFlight)
			if cur <= prev || atomic.CompareAndSwapInt32(&maxInFlight, prev, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	}).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				sink.Enqueue(testRecord("concurrent"))
			}
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return sink.PendingCount() == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestSink_TimedOutWriteIsDroppedNotRetried(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)
	sink.drainTimeout = 20 * time.Millisecond

	var fastDone atomic.Bool
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AuditLog) bool {
		return r.EntityID == "slow"
	})).Run(func(args mock.Arguments) {
		time.Sleep(300 * time.Millisecond)
	}).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AuditLog) bool {
		return r.EntityID == "fast"
	})).Run(func(args mock.Arguments) {
		fastDone.Store(true)
	}).Return(nil)

	sink.Enqueue(testRecord("slow"))
	sink.Enqueue(testRecord("fast"))

	// The fast record lands as soon as the slow one times out, long before
	// the slow store call would have completed.
	assert.Eventually(t, func() bool {
		return fastDone.Load()
	}, 150*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 0, sink.PendingCount())
}

func TestSink_WriteCriticalSucceeds(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	err := sink.WriteCritical(context.Background(), testRecord("claim"))

	assert.NoError(t, err)
	assert.Equal(t, 0, sink.PendingCount())
	repo.AssertExpectations(t)
}

func TestSink_WriteCriticalFallsBackToQueue(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)

	rec := testRecord("claim")
	repo.On("Create", mock.Anything, rec).Return(errors.New("db down")).Once()
	repo.On("Create", mock.Anything, rec).Return(nil).Once()

	err := sink.WriteCritical(context.Background(), rec)
	assert.Error(t, err)

	// The record survives on the background queue and lands exactly once.
	assert.Eventually(t, func() bool {
		return sink.PendingCount() == 0
	}, time.Second, 5*time.Millisecond)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestSink_DrainErrorDropsRecord(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	sink := NewSink(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))

	sink.Enqueue(testRecord("bad"))

	assert.Eventually(t, func() bool {
		return sink.PendingCount() == 0
	}, time.Second, 5*time.Millisecond)
	repo.AssertNumberOfCalls(t, "Create", 1)
}
