package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic application metadata.
type AppInfo struct {
	Name        string `yaml:"name"`        // application name
	Environment string `yaml:"environment"` // "development" or "production"
}

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Address string `yaml:"address"` // listen address, e.g. ":8080"
}

// ModelConfig holds the settings shared by all hosted model providers.
type ModelConfig struct {
	APIKey  string `yaml:"apiKey"`  // provider API key; env overrides apply
	Model   string `yaml:"model"`   // model name
	BaseURL string `yaml:"baseURL"` // service base URL (ollama only)
}

// LLMConfig selects and configures the generative model provider.
type LLMConfig struct {
	Provider string      `yaml:"provider"` // "openai", "gemini" or "ollama"
	OpenAI   ModelConfig `yaml:"openai"`
	Gemini   ModelConfig `yaml:"gemini"`
	Ollama   ModelConfig `yaml:"ollama"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider string      `yaml:"provider"` // "openai", "gemini" or "ollama"
	OpenAI   ModelConfig `yaml:"openai"`
	Gemini   ModelConfig `yaml:"gemini"`
	Ollama   ModelConfig `yaml:"ollama"`
}

// MilvusConfig configures the optional Milvus-backed vector store.
type MilvusConfig struct {
	Address        string `yaml:"address"`        // Milvus service address
	CollectionName string `yaml:"collectionName"` // collection holding chunk vectors
	Dim            int    `yaml:"dim"`            // embedding dimensionality
	MetricType     string `yaml:"metricType"`     // "IP" or "L2"
}

// VectorStoreConfig selects the similarity index backend.
type VectorStoreConfig struct {
	Provider string       `yaml:"provider"` // "memory" (default) or "milvus"
	Milvus   MilvusConfig `yaml:"milvus"`
}

// ChunkingConfig configures the character splitter.
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // chunk size in characters
	Overlap int `yaml:"overlap"` // trailing overlap in characters, < size
}

// RetrievalConfig configures the retrieval stage.
type RetrievalConfig struct {
	TopK int `yaml:"topK"` // number of chunks fed to the generative model
}

// SourcesConfig configures the document origins.
type SourcesConfig struct {
	LocalDir      string `yaml:"localDir"`      // folder scanned by the local source
	DropboxFolder string `yaml:"dropboxFolder"` // Dropbox folder path, e.g. "/documents"
	DropboxToken  string `yaml:"dropboxToken"`  // access token; env override applies
}

// ArtifactsConfig configures answer transcript persistence.
type ArtifactsConfig struct {
	Dir string `yaml:"dir"` // directory answer_*.txt files are written to
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App         AppInfo           `yaml:"app"`
	Logger      LoggerConfig      `yaml:"logger"`
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	VectorStore VectorStoreConfig `yaml:"vectorStore"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Sources     SourcesConfig     `yaml:"sources"`
	Artifacts   ArtifactsConfig   `yaml:"artifacts"`
}

// Defaults mirrored from the retrieval literature defaults the service started with.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 4
)

// overlapUnset marks an overlap the file never mentioned, so an explicit
// "overlap: 0" survives the defaulting pass.
const overlapUnset = -1

// LoadConfig reads and parses the YAML configuration file at path, applies
// environment overrides for secrets, and fills in defaults for any section
// left empty. Secrets are never written back to the file.
func LoadConfig(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	var cfg AppConfig
	cfg.Chunking.Overlap = overlapUnset
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides lets API keys and tokens come from the environment
// rather than the config file.
func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAI.APIKey = v
		c.Embedding.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.Gemini.APIKey = v
		c.Embedding.Gemini.APIKey = v
	}
	if v := os.Getenv("DROPBOX_ACCESS_TOKEN"); v != "" {
		c.Sources.DropboxToken = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.VectorStore.Provider == "" {
		c.VectorStore.Provider = "memory"
	}
	if c.Chunking.Size == 0 {
		c.Chunking.Size = DefaultChunkSize
	}
	if c.Chunking.Overlap == overlapUnset {
		// Scale with whatever size is in effect. The stock 1000/200 pair
		// falls out of this ratio.
		c.Chunking.Overlap = c.Chunking.Size / 5
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Sources.LocalDir == "" {
		c.Sources.LocalDir = "documents"
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "."
	}
}

func (c *AppConfig) validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking overlap must not be negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking overlap (%d) must be smaller than chunk size (%d)",
			c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval topK must be positive, got %d", c.Retrieval.TopK)
	}
	switch c.VectorStore.Provider {
	case "memory":
	case "milvus":
		if c.VectorStore.Milvus.Address == "" {
			return fmt.Errorf("vectorStore provider is milvus but no address is configured")
		}
	default:
		return fmt.Errorf("unsupported vector store provider: %s", c.VectorStore.Provider)
	}
	return nil
}
