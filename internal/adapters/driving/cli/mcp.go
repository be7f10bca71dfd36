package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/avsafe-labs/regnav/internal/adapters/driving/mcp"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
	"github.com/avsafe-labs/regnav/internal/core/ports/driving"
	"github.com/avsafe-labs/regnav/internal/core/services"
	"github.com/avsafe-labs/regnav/internal/snapshot"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. The
loaded snapshot is hot-reloaded whenever 'regnav build' commits a new
one, so the server can keep running across index rebuilds.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  regnav mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  regnav mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	manager, err := snapshot.NewManager(settings.SnapshotDir)
	if err != nil {
		return err
	}
	defer manager.Close() //nolint:errcheck

	snap := manager.Acquire()
	dim := snap.Index.Dim()
	snap.Release()
	if d := embedder.Dimensions(); dim != d {
		return fmt.Errorf("%w: snapshot has %d-dimensional vectors, embedder %q produces %d",
			domain.ErrIndexCorrupt, dim, embedder.ModelName(), d)
	}

	ports := &mcp.Ports{
		Query: &reloadingQueryService{
			manager:  manager,
			embedder: embedder,
			budget:   settings.Retrieval.ContextBudget,
		},
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		err := manager.Watch(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if port > 0 {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
			return server.RunHTTP(ctx, addr)
		}
		return server.Run(ctx)
	})
	return g.Wait()
}

// reloadingQueryService rebinds each request to the manager's current
// snapshot, so a committed rebuild takes effect without restarting the
// server. Each request holds a snapshot reference for its duration, so
// a reload never closes the snapshot it is reading.
type reloadingQueryService struct {
	manager  *snapshot.Manager
	embedder driven.EmbeddingService
	budget   int
}

var _ driving.QueryService = (*reloadingQueryService)(nil)

func (r *reloadingQueryService) acquire() (*services.QueryService, func()) {
	snap := r.manager.Acquire()
	svc := services.NewQueryService(snap.Index, snap.Store, snap.Store, r.embedder,
		services.WithContextBudget(r.budget))
	return svc, snap.Release
}

func (r *reloadingQueryService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievalResult, domain.RetrievalMeta, error) {
	svc, release := r.acquire()
	defer release()
	return svc.Retrieve(ctx, query, opts)
}

func (r *reloadingQueryService) Rerank(query string, candidates []domain.RetrievalResult, n int) []domain.RetrievalResult {
	svc, release := r.acquire()
	defer release()
	return svc.Rerank(query, candidates, n)
}

func (r *reloadingQueryService) CrossReference(ctx context.Context, label string) (*domain.CrossReference, error) {
	svc, release := r.acquire()
	defer release()
	return svc.CrossReference(ctx, label)
}

func (r *reloadingQueryService) AssembleContext(results []domain.RetrievalResult) *domain.AssembledContext {
	svc, release := r.acquire()
	defer release()
	return svc.AssembleContext(results)
}
