package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/docuchat-ai/docuchat/internal/config"
	"github.com/docuchat-ai/docuchat/internal/database/milvus"
	"github.com/docuchat-ai/docuchat/internal/embedding"
	"github.com/docuchat-ai/docuchat/internal/ingest"
	"github.com/docuchat-ai/docuchat/internal/llm"
	"github.com/docuchat-ai/docuchat/internal/metrics"
	"github.com/docuchat-ai/docuchat/internal/rag/embeddings"
	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/splitters"
	"github.com/docuchat-ai/docuchat/internal/rag/storages/docstore"
	"github.com/docuchat-ai/docuchat/internal/rag/storages/vectorstore"
	"github.com/docuchat-ai/docuchat/internal/server"
	"github.com/docuchat-ai/docuchat/internal/session"
	"github.com/docuchat-ai/docuchat/internal/source"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Ask natural-language questions over your PDF and Excel documents",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document QA HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(configPath)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config/config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(configPath string) error {
	// Secrets (API keys, Dropbox token) come from the environment; a local
	// .env file is honored when present.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger.Init(cfg.Logger.Level)
	log := logger.New("docuchat")
	log.Info(fmt.Sprintf("Starting %s (%s)", cfg.App.Name, cfg.App.Environment))

	embedModel, err := embedding.NewModel(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("create embedding client: %w", err)
	}
	embedder := embeddings.NewAdapter(embedModel)

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}

	splitter, err := splitters.NewCharSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	stores, err := storeFactory(cfg, log)
	if err != nil {
		return err
	}

	transcripts, err := session.NewTranscripts(cfg.Artifacts.Dir)
	if err != nil {
		return err
	}

	manager := session.NewManager(session.Deps{
		Log:         log,
		Splitter:    splitter,
		Embedder:    embedder,
		LLM:         llmClient,
		TopK:        cfg.Retrieval.TopK,
		Ingestor:    ingest.NewIngestor(log, ""),
		Stores:      stores,
		Transcripts: transcripts,
	})

	local := source.NewLocalSource(cfg.Sources.LocalDir)

	var dropbox source.Source
	if cfg.Sources.DropboxToken != "" {
		// The UI re-requests the listing on every interaction; the cache
		// keeps that from hitting the network until an explicit refresh.
		dropbox = source.NewCachedSource(
			source.NewDropboxSource(cfg.Sources.DropboxToken, cfg.Sources.DropboxFolder),
			cfg.Sources.DropboxFolder,
		)
	} else {
		log.Warn("DROPBOX_ACCESS_TOKEN not set; the dropbox origin is disabled")
	}

	srv := server.New(manager, local, dropbox, transcripts, metrics.New(), log)

	log.Info(fmt.Sprintf("HTTP server listening at %s", cfg.Server.Address))
	return srv.Router().Run(cfg.Server.Address)
}

// storeFactory returns the per-load chunk store builder. The memory backend
// builds fresh stores per load, so a failed load never disturbs the previous
// index. The Milvus backend shares one collection; the rebuild wrapper
// defers clearing it until the new build actually inserts, so loads that
// fail during parsing or embedding keep the previous vectors.
func storeFactory(cfg *config.AppConfig, log *logger.Logger) (session.StoreFactory, error) {
	switch cfg.VectorStore.Provider {
	case "memory":
		return func(ctx context.Context) (interfaces.DocStore, interfaces.VectorStore, error) {
			return docstore.NewInMemoryDocStore(), vectorstore.NewMemoryStore(), nil
		}, nil

	case "milvus":
		client, err := milvus.NewClient(context.Background(), &cfg.VectorStore.Milvus, log)
		if err != nil {
			return nil, err
		}
		store, err := vectorstore.NewMilvusStore(context.Background(), client, log)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (interfaces.DocStore, interfaces.VectorStore, error) {
			return docstore.NewInMemoryDocStore(), vectorstore.NewRebuildStore(store), nil
		}, nil

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", cfg.VectorStore.Provider)
	}
}
