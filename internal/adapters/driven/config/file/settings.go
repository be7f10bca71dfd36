package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/avsafe-labs/regnav/internal/chunker"
	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// Settings is the full regnav configuration. Zero values are replaced
// by defaults at load time, so a partial config file is fine.
type Settings struct {
	// SnapshotDir is where index snapshots live.
	SnapshotDir string `toml:"snapshot_dir"`

	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	Embedding EmbeddingSettings `toml:"embedding"`

	// Volumes maps volume identifiers (I, II, III) to source PDF paths.
	Volumes map[string]string `toml:"volumes"`
}

// ChunkingSettings tune the document chunker.
type ChunkingSettings struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalSettings tune query-time behaviour.
type RetrievalSettings struct {
	TopK           int     `toml:"top_k"`
	ScoreThreshold float64 `toml:"score_threshold"`
	RerankN        int     `toml:"rerank_n"`
	ContextBudget  int     `toml:"context_budget"`
}

// EmbeddingSettings select and configure the embedding backend.
type EmbeddingSettings struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint (Ollama only).
	BaseURL string `toml:"base_url"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		SnapshotDir: defaultSnapshotDir(),
		Chunking: ChunkingSettings{
			Size:    chunker.DefaultChunkSize,
			Overlap: chunker.DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK:           domain.DefaultTopK,
			ScoreThreshold: domain.DefaultScoreThreshold,
			RerankN:        domain.DefaultRerankN,
			ContextBudget:  domain.DefaultContextBudget,
		},
		Embedding: EmbeddingSettings{
			Provider: "ollama",
			Model:    "nomic-embed-text",
		},
	}
}

func defaultSnapshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".regnav/snapshots"
	}
	return filepath.Join(home, ".regnav", "snapshots")
}

// DefaultPath returns the default config file location,
// ~/.regnav/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".regnav", "config.toml")
}

// Load reads settings from path, layered over the defaults. A missing
// file yields the defaults; a malformed one is an error.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing config %s: %w", path, err)
	}

	settings.applyDefaults()
	return settings, nil
}

// applyDefaults fills fields the file left at zero.
func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if s.SnapshotDir == "" {
		s.SnapshotDir = defaults.SnapshotDir
	}
	if s.Chunking.Size <= 0 {
		s.Chunking.Size = defaults.Chunking.Size
	}
	if s.Chunking.Overlap < 0 {
		s.Chunking.Overlap = defaults.Chunking.Overlap
	}
	if s.Retrieval.TopK <= 0 {
		s.Retrieval.TopK = defaults.Retrieval.TopK
	}
	if s.Retrieval.ScoreThreshold <= 0 {
		s.Retrieval.ScoreThreshold = defaults.Retrieval.ScoreThreshold
	}
	if s.Retrieval.RerankN <= 0 {
		s.Retrieval.RerankN = defaults.Retrieval.RerankN
	}
	if s.Retrieval.ContextBudget <= 0 {
		s.Retrieval.ContextBudget = defaults.Retrieval.ContextBudget
	}
	if s.Embedding.Provider == "" {
		s.Embedding.Provider = defaults.Embedding.Provider
	}
	if s.Embedding.Model == "" {
		s.Embedding.Model = defaults.Embedding.Model
	}
}

// Save writes the settings to path in TOML, creating the directory if
// needed.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
