package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/docuchat-ai/docuchat/internal/config"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// Client wraps the Milvus SDK client together with its configuration.
type Client struct {
	Client client.Client
	Config *config.MilvusConfig
	log    *logger.Logger
}

// NewClient connects to Milvus at the configured address.
func NewClient(ctx context.Context, cfg *config.MilvusConfig, log *logger.Logger) (*Client, error) {
	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus at %s: %w", cfg.Address, err)
	}
	log.Info(fmt.Sprintf("Connected to Milvus at %s", cfg.Address))
	return &Client{Client: c, Config: cfg, log: log}, nil
}

// Close shuts down the connection.
func (c *Client) Close() {
	if c.Client != nil {
		c.Client.Close()
		c.log.Info("Closed Milvus connection")
	}
}

// HealthCheck verifies the connection is usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("milvus client is nil")
	}
	if _, err := c.Client.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

// EnsureCollection creates and loads the chunk collection if it does not
// exist yet. The schema holds a varchar primary key, the source file name and
// the embedding vector.
func (c *Client) EnsureCollection(ctx context.Context) error {
	name := c.Config.CollectionName

	has, err := c.Client.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %q: %w", name, err)
	}

	if !has {
		schema := entity.NewSchema().
			WithName(name).
			WithDescription("document chunk vectors").
			WithField(entity.NewField().
				WithName("id").
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(64).
				WithIsPrimaryKey(true)).
			WithField(entity.NewField().
				WithName("source").
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(512)).
			WithField(entity.NewField().
				WithName("embedding").
				WithDataType(entity.FieldTypeFloatVector).
				WithDim(int64(c.Config.Dim)))

		if err := c.Client.CreateCollection(ctx, schema, 1); err != nil {
			return fmt.Errorf("create collection %q: %w", name, err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.MetricType(c.Config.MetricType), 128)
		if err != nil {
			return fmt.Errorf("build index definition: %w", err)
		}
		if err := c.Client.CreateIndex(ctx, name, "embedding", idx, false); err != nil {
			return fmt.Errorf("create index on %q: %w", name, err)
		}
		c.log.Info(fmt.Sprintf("Created Milvus collection %q (dim=%d, metric=%s)",
			name, c.Config.Dim, c.Config.MetricType))
	}

	if err := c.Client.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("load collection %q: %w", name, err)
	}
	return nil
}

// DropCollection removes the chunk collection entirely. Used when the index
// is rebuilt from scratch.
func (c *Client) DropCollection(ctx context.Context) error {
	name := c.Config.CollectionName
	has, err := c.Client.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %q: %w", name, err)
	}
	if !has {
		return nil
	}
	if err := c.Client.DropCollection(ctx, name); err != nil {
		return fmt.Errorf("drop collection %q: %w", name, err)
	}
	return nil
}
