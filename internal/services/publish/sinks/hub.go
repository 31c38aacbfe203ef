package sinks

import (
	"context"
	"time"

	"qabundle/internal/adapters/hub"
	"qabundle/internal/adapters/parquet"
	"qabundle/internal/core/qa"
	"qabundle/internal/platform/logger"
	"qabundle/internal/services/publish/domain"
)

// HubConfig configures the hub sink
type HubConfig struct {
	Endpoint  string
	Revision  string
	Timeout   time.Duration
	UserAgent string

	// Token is a preconfigured credential, usually HF_TOKEN
	Token string
}

// hubClient is the slice of the hub client the sink drives
type hubClient interface {
	WhoAmI(ctx context.Context) (string, error)
	CreateDataset(ctx context.Context, repo string) error
	ReadFile(ctx context.Context, repo, rev, path string) ([]byte, bool, error)
	Push(ctx context.Context, repo, rev, summary string, files []hub.File) (hub.CommitInfo, error)
	DatasetURL(repo string) string
}

// Hub publishes a parquet shard and dataset card to a dataset hub
type Hub struct {
	cfg       HubConfig
	newClient func(token string) hubClient
}

// NewHub builds the hub sink
func NewHub(cfg HubConfig) *Hub {
	if cfg.Revision == "" {
		cfg.Revision = "main"
	}
	return &Hub{
		cfg: cfg,
		newClient: func(token string) hubClient {
			return hub.New(hub.Config{Endpoint: cfg.Endpoint, Token: token, Timeout: cfg.Timeout, UserAgent: cfg.UserAgent})
		},
	}
}

// Name implements domain.Sink
func (h *Hub) Name() string { return domain.SinkHub }

// Credential implements domain.Sink
func (h *Hub) Credential() (string, bool) { return h.cfg.Token, true }

// Publish checks the token, ensures the repo exists and commits shard and card together
func (h *Hub) Publish(ctx context.Context, t domain.Target, rows []qa.Row) (domain.Result, error) {
	log := logger.C(ctx).With().Str("sink", domain.SinkHub).Str("repo", t.Repo).Str("config", t.Config).Logger()
	c := h.newClient(t.Token)

	user, err := c.WhoAmI(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	log.Info().Str("user", user).Msg("hub login ok")

	shard, err := parquet.EncodeBytes(rows)
	if err != nil {
		return domain.Result{}, err
	}

	if err := c.CreateDataset(ctx, t.Repo); err != nil {
		return domain.Result{}, err
	}

	existing, _, err := c.ReadFile(ctx, t.Repo, h.cfg.Revision, hub.CardFile)
	if err != nil {
		return domain.Result{}, err
	}
	card, err := hub.BuildCard(existing, t.Repo, hub.CardEntry{
		Config:   t.Config,
		Rows:     len(rows),
		Bytes:    int64(len(shard)),
		Features: parquet.Columns,
	})
	if err != nil {
		return domain.Result{}, err
	}

	files := []hub.File{
		{Path: hub.ShardPath(t.Config), Content: shard},
		{Path: hub.CardFile, Content: card},
	}
	info, err := c.Push(ctx, t.Repo, h.cfg.Revision, commitSummary(t.Config), files)
	if err != nil {
		return domain.Result{}, err
	}
	log.Info().Str("commit", info.OID).Int("rows", len(rows)).Int("bytes", len(shard)).Msg("hub commit created")

	return domain.Result{
		Sink:     domain.SinkHub,
		Location: c.DatasetURL(t.Repo),
		Rows:     len(rows),
		Commit:   info.OID,
	}, nil
}
