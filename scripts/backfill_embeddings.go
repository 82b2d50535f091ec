package main

import (
	"context"
	"log"

	"hireflow/talent-matcher/internal/config"
	"hireflow/talent-matcher/internal/repositories"
	"hireflow/talent-matcher/internal/services"
)

// Backfills vectors for candidates that were created before embedding
// support was enabled, or whose profile changed while the worker was down.
func main() {
	log.Println("🚀 Starting embedding backfill...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	candidateRepo := repositories.NewCandidateRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	textBuilder := services.NewTextBuilder()
	explainer := services.NewExplainer()

	embedder, err := services.NewEmbeddingService(cfg.Embedding)
	if err != nil {
		log.Fatalf("❌ Failed to initialize embedding provider: %v", err)
	}

	vectorStore, err := services.NewQdrantVectorStore(cfg.Qdrant, cfg.Embedding.VectorSize)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()

	if err := vectorStore.EnsureReady(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	matcher := services.NewMatcherService(
		candidateRepo,
		jobRepo,
		textBuilder,
		explainer,
		embedder,
		vectorStore,
		services.NewVectorSearcher(vectorStore),
		services.NewKeywordSearcher(candidateRepo, textBuilder, explainer),
		cfg.Matching,
	)

	const batchSize = 50

	successCount := 0
	failCount := 0

	for {
		candidates, err := candidateRepo.FindNeedingEmbedding(batchSize)
		if err != nil {
			log.Fatalf("❌ Failed to fetch candidates: %v", err)
		}

		if len(candidates) == 0 {
			break
		}

		log.Printf("📋 Processing batch of %d candidates\n", len(candidates))

		batchSuccess := 0
		for _, candidate := range candidates {
			if err := matcher.UpdateEmbedding(ctx, candidate.ID, candidate.TenantID); err != nil {
				log.Printf("❌ Failed to embed candidate %s: %v\n", candidate.ID, err)
				failCount++
				continue
			}
			successCount++
			batchSuccess++
		}

		// Failed candidates stay pending; stop rather than spin on them.
		if batchSuccess == 0 {
			log.Println("⚠️  No progress in last batch, stopping")
			break
		}

		if len(candidates) < batchSize {
			break
		}
	}

	log.Printf("✅ Backfill complete: %d succeeded, %d failed\n", successCount, failCount)
}
