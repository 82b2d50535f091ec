package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEnqueueRefreshDropsWhenQueueFull(t *testing.T) {
	repo := &fakeCandidateRepo{}
	worker := NewEmbeddingWorker(repo, nil, 3, time.Minute)

	// Nothing drains the queue; enqueueing more jobs than it holds must
	// still return promptly.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 150; i++ {
			worker.EnqueueRefresh(uuid.New(), uuid.New())
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("EnqueueRefresh blocked on a full queue")
	}
}

func TestEnqueueRefreshAfterStop(t *testing.T) {
	repo := &fakeCandidateRepo{}
	worker := NewEmbeddingWorker(repo, nil, 3, time.Minute)
	worker.Stop()

	worker.EnqueueRefresh(uuid.New(), uuid.New())
}
