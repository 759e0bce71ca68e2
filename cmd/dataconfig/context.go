package main

import (
	"context"
	"log/slog"

	"github.com/enlightendev/dataconfig/config"
	"github.com/enlightendev/dataconfig/wiring"
)

// buildComponents wires the persistence graph from the config stored in ctx.
func buildComponents(ctx context.Context) (*config.Config, *wiring.Components, error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	c := wiring.Build(cfg,
		wiring.WithLogger(slog.Default()),
		wiring.WithEnvironment(cfg.Env),
		wiring.WithAllowDestructiveSchema(cfg.Database.AllowDestructiveSchema),
	)
	return cfg, c, nil
}
