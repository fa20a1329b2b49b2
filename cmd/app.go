package cmd

import (
	"context"
	"fmt"
	"io"

	"order-entry/catalog"
	"order-entry/config"
	"order-entry/history"
	"order-entry/logger"
	"order-entry/serial"
	"order-entry/store"
	"order-entry/transport"
)

// app 各命令共享的组件
type app struct {
	cfg       *config.Config
	log       logger.Logger
	store     store.LocalStore
	closer    io.Closer
	allocator *serial.Allocator
	ranker    *catalog.Ranker
	local     *history.LocalOrders
	client    *transport.AppsScriptClient
	history   *history.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	s, closer, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	builtin := catalog.DefaultAccessories
	if cfg.CatalogFile != "" {
		if builtin, err = catalog.LoadFile(cfg.CatalogFile); err != nil {
			closer.Close()
			return nil, err
		}
	}

	alloc, err := serial.NewAllocator(ctx, s, serial.WithLocation(cfg.Location()))
	if err != nil {
		closer.Close()
		return nil, err
	}

	client := transport.NewAppsScriptClient(cfg.AppsScriptURL, cfg.RequestTimeout)
	local := history.NewLocalOrders(s)
	return &app{
		cfg:       cfg,
		log:       log,
		store:     s,
		closer:    closer,
		allocator: alloc,
		ranker:    catalog.NewRanker(s, builtin),
		local:     local,
		client:    client,
		history:   history.NewService(client, local, log),
	}, nil
}

func (a *app) Close() {
	if err := a.closer.Close(); err != nil {
		a.log.Warnf(context.Background(), "close store: %v", err)
	}
	_ = a.log.Sync()
}
