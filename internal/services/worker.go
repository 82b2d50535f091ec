package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hireflow/talent-matcher/internal/repositories"
)

// EmbeddingWorker refreshes candidate vectors in the background. Profile
// edits enqueue a job and return immediately; the poller additionally sweeps
// for candidates whose vector is missing or stale.
type EmbeddingWorker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRefresh(candidateID, tenantID uuid.UUID)
}

type refreshJob struct {
	CandidateID uuid.UUID
	TenantID    uuid.UUID
}

type embeddingWorker struct {
	candidateRepo repositories.CandidateRepository
	matcher       MatcherService
	jobQueue      chan refreshJob
	concurrency   int
	pollInterval  time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

func NewEmbeddingWorker(
	candidateRepo repositories.CandidateRepository,
	matcher MatcherService,
	concurrency int,
	pollInterval time.Duration,
) EmbeddingWorker {
	return &embeddingWorker{
		candidateRepo: candidateRepo,
		matcher:       matcher,
		jobQueue:      make(chan refreshJob, 100),
		concurrency:   concurrency,
		pollInterval:  pollInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start implements EmbeddingWorker.
func (w *embeddingWorker) Start(ctx context.Context) {
	log.Printf("🚀 Starting embedding worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollStaleCandidates(ctx)

	log.Println("✅ Embedding worker started successfully")
}

// Stop implements EmbeddingWorker.
func (w *embeddingWorker) Stop() {
	log.Println("🛑 Stopping embedding worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Embedding worker stopped")
}

// EnqueueRefresh implements EmbeddingWorker. The send never blocks the
// caller: when the queue is full the refresh is dropped and the stale poller
// picks the candidate up on its next sweep.
func (w *embeddingWorker) EnqueueRefresh(candidateID, tenantID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue refresh for %s\n", candidateID)
		return
	default:
	}

	select {
	case w.jobQueue <- refreshJob{CandidateID: candidateID, TenantID: tenantID}:
	default:
		log.Printf("⚠️  Refresh queue full, dropping refresh for %s\n", candidateID)
	}
}

func (w *embeddingWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			// Best-effort: failures are logged, never surfaced to the CRUD
			// flow that triggered the refresh.
			if err := w.matcher.UpdateEmbedding(ctx, job.CandidateID, job.TenantID); err != nil {
				log.Printf("❌ Worker #%d failed to refresh embedding for %s: %v\n", workerID, job.CandidateID, err)
			}
		}
	}
}

func (w *embeddingWorker) pollStaleCandidates(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting stale embedding poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Stale embedding poller stopped")
			return
		case <-ticker.C:
			candidates, err := w.candidateRepo.FindNeedingEmbedding(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch candidates needing embedding: %v\n", err)
				continue
			}

			if len(candidates) > 0 {
				log.Printf("📋 Found %d candidates needing embedding refresh\n", len(candidates))
			}

			for _, candidate := range candidates {
				w.EnqueueRefresh(candidate.ID, candidate.TenantID)
			}
		}
	}
}
