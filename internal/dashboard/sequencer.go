package dashboard

import (
	"context"
	"sync"
)

// sequencer runs jobs for the same key one at a time, in the order Do was
// called. Jobs for different keys run concurrently.
type sequencer struct {
	mu    sync.Mutex
	tails map[int64]chan struct{}
}

func newSequencer() *sequencer {
	return &sequencer{tails: make(map[int64]chan struct{})}
}

// Do waits for every earlier job on key, then runs fn. If ctx ends while
// waiting, fn is skipped and the context error returned; later jobs on the
// same key still wait for the earlier ones.
func (s *sequencer) Do(ctx context.Context, key int64, fn func() error) error {
	s.mu.Lock()
	prev := s.tails[key]
	done := make(chan struct{})
	s.tails[key] = done
	s.mu.Unlock()

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				s.finish(key, done)
			}()
			return ctx.Err()
		}
	}

	defer s.finish(key, done)
	return fn()
}

func (s *sequencer) finish(key int64, done chan struct{}) {
	s.mu.Lock()
	if s.tails[key] == done {
		delete(s.tails, key)
	}
	s.mu.Unlock()
	close(done)
}

// pending reports how many keys have queued or running jobs
func (s *sequencer) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tails)
}
