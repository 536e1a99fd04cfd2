package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	block  chan struct{}
	err    error
}

func (r *recordingRepo) InsertEvent(_ context.Context, e *domain.OrderEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.OrderEvent(nil), r.events...)
}

func TestDispatcher_PersistsInOrderPerOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(context.Background())

	statuses := []domain.OrderStatus{domain.StatusOrdered, domain.StatusOrdered, domain.StatusDelivered}
	for i := 0; i < 10; i++ {
		for _, s := range statuses {
			d.Publish(domain.OrderEvent{OrderID: fmt.Sprintf("order-%d", i), Status: s, At: time.Now()})
		}
	}
	d.Close()

	events := repo.snapshot()
	if len(events) != 30 {
		t.Fatalf("expected 30 events, got %d", len(events))
	}
	seen := map[string]int{}
	for _, e := range events {
		if e.Status != statuses[seen[e.OrderID]] {
			t.Errorf("order %s: event %d out of order (%s)", e.OrderID, seen[e.OrderID], e.Status)
		}
		seen[e.OrderID]++
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	for _, id := range []string{"a", "64b7f0c2a1b2c3d4e5f60718", ""} {
		first := d.shardIndex(id)
		if first < 0 || first >= len(d.workers) {
			t.Errorf("index %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Errorf("shard index for %q is not stable", id)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	// One event is held by the blocked worker; the channel holds channelBuffer more.
	total := channelBuffer + 10
	for i := 0; i < total; i++ {
		d.Publish(domain.OrderEvent{OrderID: "same"})
	}
	close(repo.block)
	d.Close()

	got := len(repo.snapshot())
	if got >= total {
		t.Errorf("expected some events dropped, persisted %d of %d", got, total)
	}
	if got < channelBuffer {
		t.Errorf("expected at least %d persisted, got %d", channelBuffer, got)
	}
}

func TestDispatcher_PublishAfterCloseIsIgnored(t *testing.T) {
	repo := &recordingRepo{err: errors.New("insert failed")}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Publish(domain.OrderEvent{OrderID: "o1"})
	d.Close()
	d.Close()

	d.Publish(domain.OrderEvent{OrderID: "o2"})
	if n := len(repo.snapshot()); n != 1 {
		t.Errorf("expected 1 persisted attempt, got %d", n)
	}
}
