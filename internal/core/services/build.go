package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avsafe-labs/regnav/internal/chunker"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
	"github.com/avsafe-labs/regnav/internal/core/ports/driving"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// Ensure BuildService implements the interface.
var _ driving.BuildService = (*BuildService)(nil)

// defaultBuildWorkers bounds concurrent document pipelines. Extraction
// is CPU-bound and embedding is rate-limited upstream, so a small pool
// is enough.
const defaultBuildWorkers = 3

// BuildService runs the extract, chunk, embed, index pipeline and
// persists the result as a snapshot.
type BuildService struct {
	extractor driven.Extractor
	embedding driven.EmbeddingService
	snapshots driven.SnapshotStore
	chunker   *chunker.Chunker
	workers   int
}

// BuildOption configures a BuildService.
type BuildOption func(*BuildService)

// WithChunker overrides the default chunker.
func WithChunker(c *chunker.Chunker) BuildOption {
	return func(s *BuildService) { s.chunker = c }
}

// WithWorkers sets the number of concurrent document pipelines.
func WithWorkers(n int) BuildOption {
	return func(s *BuildService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewBuildService creates a build service.
func NewBuildService(
	extractor driven.Extractor,
	embedding driven.EmbeddingService,
	snapshots driven.SnapshotStore,
	opts ...BuildOption,
) *BuildService {
	s := &BuildService{
		extractor: extractor,
		embedding: embedding,
		snapshots: snapshots,
		chunker:   chunker.New(),
		workers:   defaultBuildWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// docResult is the output of one document pipeline.
type docResult struct {
	chunks  []domain.Chunk
	vectors [][]float32
}

// Build ingests the sources into a new snapshot. Documents run through
// the pipeline concurrently; a failing document is recorded in the
// report and the rest carry on. The build fails outright only when no
// document succeeds.
func (s *BuildService) Build(ctx context.Context, sources []driving.BuildSource) (*domain.BuildReport, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources", domain.ErrInvalidInput)
	}

	report := &domain.BuildReport{
		ID:        uuid.NewString(),
		Documents: make([]domain.DocumentReport, len(sources)),
		Dimension: s.embedding.Dimensions(),
		Started:   time.Now(),
	}
	logger.Section("Index Build")
	logger.Info("Build %s: %d sources, model %s (dim %d)",
		report.ID, len(sources), s.embedding.ModelName(), report.Dimension)

	if err := s.embedding.Ping(ctx); err != nil {
		return nil, fmt.Errorf("embedding service unavailable: %w", err)
	}

	results := make([]docResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, source := range sources {
		g.Go(func() error {
			res, docReport := s.ingestDocument(gctx, source)
			report.Documents[i] = docReport
			if docReport.Err == nil {
				results[i] = res
			}
			// Per-document failures stay in the report; only context
			// cancellation aborts the whole group.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	// Flatten in volume/sequence order so the stored metadata and the
	// vector block stay positionally aligned.
	var chunks []domain.Chunk
	var vectors [][]float32
	order := make([]int, 0, len(results))
	for i := range results {
		if report.Documents[i].Err == nil {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		return sources[order[a]].Volume < sources[order[b]].Volume
	})
	for _, i := range order {
		chunks = append(chunks, results[i].chunks...)
		vectors = append(vectors, results[i].vectors...)
	}

	report.TotalChunks = len(chunks)
	report.Finished = time.Now()

	if report.Succeeded() == 0 || len(chunks) == 0 {
		return report, fmt.Errorf("%w: no documents ingested", domain.ErrBuildEmpty)
	}

	sections := catalogueSections(chunks)
	if err := s.snapshots.Write(ctx, report.ID, chunks, vectors, sections, report.Dimension); err != nil {
		return report, fmt.Errorf("persisting snapshot: %w", err)
	}

	logger.Info("Build %s finished: %d chunks from %d/%d documents in %s",
		report.ID, report.TotalChunks, report.Succeeded(), len(sources),
		report.Finished.Sub(report.Started).Round(time.Millisecond))
	return report, nil
}

// ingestDocument runs extract, chunk and embed for one source.
func (s *BuildService) ingestDocument(ctx context.Context, source driving.BuildSource) (docResult, domain.DocumentReport) {
	docReport := domain.DocumentReport{Volume: source.Volume}

	info, ok := domain.Volumes[source.Volume]
	if !ok {
		docReport.Err = fmt.Errorf("%w: unknown volume %q", domain.ErrInvalidInput, source.Volume)
		return docResult{}, docReport
	}
	doc := domain.Document{
		Volume: source.Volume,
		Title:  info.Title,
		Type:   info.Type,
	}

	pages, err := s.extractor.Extract(ctx, doc, source.Path)
	if err != nil {
		docReport.Err = err
		return docResult{}, docReport
	}
	for _, p := range pages {
		if p.Text != "" {
			docReport.Pages++
		}
	}
	logger.Debug("Volume %s: %d pages with text", source.Volume, docReport.Pages)

	chunks := s.chunker.ChunkDocument(doc, pages)
	if len(chunks) == 0 {
		docReport.Err = fmt.Errorf("%w: volume %s produced no chunks", domain.ErrExtraction, source.Volume)
		return docResult{}, docReport
	}
	docReport.Chunks = len(chunks)
	logger.Debug("Volume %s: %d chunks", source.Volume, len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		docReport.Err = err
		return docResult{}, docReport
	}

	return docResult{chunks: chunks, vectors: vectors}, docReport
}

// catalogueSections builds the section catalogue: every chunk is
// listed under its own section label, plus referenced entries for
// section codes mentioned in its text.
func catalogueSections(chunks []domain.Chunk) []driven.SectionEntry {
	var entries []driven.SectionEntry
	for _, chunk := range chunks {
		if chunk.SectionLabel != "" {
			entries = append(entries, driven.SectionEntry{
				Label:   chunk.SectionLabel,
				ChunkID: chunk.ID,
			})
		}
		for _, ref := range domain.ExtractSectionRefs(chunk.Text) {
			if ref == chunk.SectionLabel {
				continue
			}
			entries = append(entries, driven.SectionEntry{
				Label:      ref,
				ChunkID:    chunk.ID,
				Referenced: true,
			})
		}
	}
	return entries
}
