// Package main is the entry point for the order service.
// It wires together all modules and starts the HTTP server.
package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := LoadConfig(os.Args[1:])
		if err != nil {
			return err
		}
		return Run(ctx, lg, m.TracerProvider(), cfg)
	})
}
