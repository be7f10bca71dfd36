package cli

import (
	"fmt"
	"os"

	"github.com/avsafe-labs/regnav/internal/adapters/driven/embedding/ollama"
	"github.com/avsafe-labs/regnav/internal/adapters/driven/embedding/openai"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
	"github.com/avsafe-labs/regnav/internal/core/services"
	"github.com/avsafe-labs/regnav/internal/snapshot"
)

// newEmbedder constructs the configured embedding backend.
func newEmbedder() (driven.EmbeddingService, error) {
	switch settings.Embedding.Provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: settings.Embedding.BaseURL,
			Model:   settings.Embedding.Model,
		}), nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  settings.Embedding.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want ollama or openai)", settings.Embedding.Provider)
	}
}

// openQueryService opens the current snapshot and wires a query
// service on top of it. The returned cleanup closes both.
func openQueryService() (*services.QueryService, func(), error) {
	embedder, err := newEmbedder()
	if err != nil {
		return nil, nil, err
	}

	snap, err := snapshot.Open(settings.SnapshotDir)
	if err != nil {
		embedder.Close() //nolint:errcheck
		return nil, nil, err
	}

	if d := embedder.Dimensions(); snap.Index.Dim() != d {
		snap.Close()     //nolint:errcheck
		embedder.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("%w: snapshot has %d-dimensional vectors, embedder %q produces %d",
			domain.ErrIndexCorrupt, snap.Index.Dim(), embedder.ModelName(), d)
	}

	svc := services.NewQueryService(snap.Index, snap.Store, snap.Store, embedder,
		services.WithContextBudget(settings.Retrieval.ContextBudget))
	cleanup := func() {
		snap.Close()     //nolint:errcheck
		embedder.Close() //nolint:errcheck
	}
	return svc, cleanup, nil
}
