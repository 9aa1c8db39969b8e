package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"afyalink/internal/domain"
	"afyalink/internal/repository"
)

const (
	drainTimeout    = 5 * time.Second
	criticalTimeout = 3 * time.Second
)

// Sink buffers audit records in memory and drains them to the store in the
// background. Enqueue never blocks on I/O and never fails; a record that
// cannot be persisted within the timeout is logged and dropped. The queue
// is deliberately unbounded and volatile: records pending at process exit
// are accepted loss.
type Sink struct {
	repo repository.AuditLogRepository

	drainTimeout    time.Duration
	criticalTimeout time.Duration

	mu       sync.Mutex
	queue    []*domain.AuditLog
	draining bool
}

func NewSink(repo repository.AuditLogRepository) *Sink {
	return &Sink{
		repo:            repo,
		drainTimeout:    drainTimeout,
		criticalTimeout: criticalTimeout,
	}
}

// Enqueue appends the record and wakes the drain worker. At most one
// worker runs at a time, whatever the number of producers.
func (s *Sink) Enqueue(rec *domain.AuditLog) {
	s.mu.Lock()
	s.queue = append(s.queue, rec)
	depth := len(s.queue)
	start := !s.draining
	if start {
		s.draining = true
	}
	s.mu.Unlock()

	if start {
		if depth > 1 {
			log.Printf("audit: draining backlog of %d records", depth)
		}
		go s.drain()
	}
}

func (s *Sink) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		rec := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if err := s.persist(context.Background(), rec, s.drainTimeout); err != nil {
			log.Printf("audit: dropping record %s %s/%s by %s: %v",
				rec.Action, rec.EntityType, rec.EntityID, rec.UserID, err)
		}
	}
}

// WriteCritical makes one immediate, bounded persistence attempt. On any
// failure the record falls back to the background queue, so the caller
// loses immediacy, not the record.
func (s *Sink) WriteCritical(ctx context.Context, rec *domain.AuditLog) error {
	if err := s.persist(ctx, rec, s.criticalTimeout); err != nil {
		log.Printf("audit: critical write failed, re-queueing %s %s/%s: %v",
			rec.Action, rec.EntityType, rec.EntityID, err)
		s.Enqueue(rec)
		return err
	}
	return nil
}

// persist races the store call against the timeout. A late completion
// writes into a buffered channel nobody reads anymore; its result is
// discarded, never applied.
func (s *Sink) persist(ctx context.Context, rec *domain.AuditLog, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.repo.Create(ctx, rec)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingCount reports the queue depth, for tests and ops visibility.
func (s *Sink) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
