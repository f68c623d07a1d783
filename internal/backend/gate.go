// Package backend holds the availability gate for the remote CouchDB
// backend. The gate is an explicit handle threaded into the remote
// repository; it is consulted on every call and can be reconfigured at
// runtime when the user changes settings.
package backend

import (
	"context"
	"errors"
	"sync"

	"driftnote-server/internal/config"

	"github.com/go-kivik/kivik/v4"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Client when no remote credentials are
// present. Callers treat it exactly like a failed remote call.
var ErrNotConfigured = errors.New("remote backend not configured")

type Gate struct {
	mu     sync.Mutex
	cfg    config.RemoteConfig
	client *kivik.Client
	logger *zap.Logger
}

func NewGate(cfg config.RemoteConfig, logger *zap.Logger) *Gate {
	return &Gate{
		cfg:    cfg,
		logger: logger,
	}
}

// Configured reports whether remote credentials are present at this
// moment. It says nothing about reachability.
func (g *Gate) Configured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg.Configured()
}

// Reconfigure swaps the remote configuration and drops any client built
// from the old one. The next Client call constructs a fresh client.
func (g *Gate) Reconfigure(cfg config.RemoteConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		g.client.Close()
	}
	g.cfg = cfg
	g.client = nil
	g.logger.Info("remote backend reconfigured", zap.Bool("configured", cfg.Configured()))
}

// Client returns the kivik client and database name, constructing the
// client on first use. Construction failure is reported as an error so
// the caller degrades to the fallback path.
func (g *Gate) Client() (*kivik.Client, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.cfg.Configured() {
		return nil, "", ErrNotConfigured
	}

	if g.client == nil {
		client, err := kivik.New("couch", g.cfg.DSN())
		if err != nil {
			return nil, "", err
		}
		g.client = client
		g.ensureDatabase()
	}

	return g.client, g.cfg.Database, nil
}

// ensureDatabase creates the database and the children listing index if
// they are missing. Best-effort: a failure here surfaces on the first
// real operation instead.
func (g *Gate) ensureDatabase() {
	ctx := context.Background()

	exists, err := g.client.DBExists(ctx, g.cfg.Database)
	if err != nil {
		g.logger.Warn("could not check remote database", zap.Error(err))
		return
	}

	if !exists {
		if err := g.client.CreateDB(ctx, g.cfg.Database); err != nil {
			g.logger.Warn("could not create remote database", zap.Error(err))
			return
		}
		g.logger.Info("created remote database", zap.String("database", g.cfg.Database))
	}

	db := g.client.DB(g.cfg.Database)
	index := map[string]interface{}{
		"fields": []string{"parent_id", "created_at"},
	}
	if err := db.CreateIndex(ctx, "items", "by-parent-created", index); err != nil {
		g.logger.Warn("could not create children index", zap.Error(err))
	}
}
