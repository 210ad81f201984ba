package cmd

import (
	"context"
	"log"
	"time"

	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/database"
	"github.com/actionsum/niribar/pkg/niri"
)

// newClient resolves the niri socket from the configuration or the environment
func newClient(cfg *config.Config) (*niri.Client, error) {
	path := cfg.IPC.SocketPath
	if path == "" {
		var err error
		if path, err = niri.SocketPath(); err != nil {
			return nil, err
		}
	}
	return niri.NewClient(path), nil
}

// subscribe opens the event stream, bounding only the handshake by the connect timeout
func subscribe(ctx context.Context, cfg *config.Config) (*niri.EventStream, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.IPC.ConnectTimeout)
	defer cancel()

	stream, err := client.EventStream(connectCtx)
	if err != nil {
		return nil, err
	}
	log.Printf("Subscribed to niri event stream at %s", client.Path())
	return stream, nil
}

// openRepository connects to the journal database and prunes entries past retention
func openRepository(cfg *config.Config) (*database.Repository, func(), error) {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, nil, err
	}

	repo := database.NewRepository(db)

	if cfg.Recorder.Retention > 0 {
		deleted, err := repo.DeleteOldEvents(time.Now().Add(-cfg.Recorder.Retention))
		if err != nil {
			log.Printf("Failed to prune old journal entries: %v", err)
		} else if deleted > 0 {
			log.Printf("Pruned %d journal entries older than %v", deleted, cfg.Recorder.Retention)
		}
	}

	return repo, func() { db.Close() }, nil
}
