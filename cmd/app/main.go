package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trading_go/internal/app"
	"trading_go/internal/infra/binance"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background Symbol Sync (tick sizes for price quantization)
	go bootstrap.SyncSymbols(ctx)

	// 5. Mark Price Stream (live quotes for the menu header)
	cfg := bootstrap.Config
	if cfg.API.Binance.WSURL != "" && len(cfg.API.Binance.Symbols) > 0 {
		worker := binance.NewMarkPriceWorker(cfg.API.Binance.WSURL, cfg.API.Binance.Symbols, bootstrap.Prices.Update)
		if err := worker.Connect(ctx); err != nil {
			slog.Error("Failed to connect mark price stream", slog.Any("error", err))
		} else {
			defer worker.Disconnect()
			slog.InfoContext(ctx, "✅ MarkPriceWorker started", slog.Int("symbols", len(cfg.API.Binance.Symbols)))
		}
	}

	slog.InfoContext(ctx, "✨ Trading Go fully operational.")

	// 6. Interactive Menu (blocks until exit or Ctrl+C)
	menu := app.NewMenu(bootstrap.Engine, bootstrap.Client, bootstrap.Prices, cfg, os.Stdin, os.Stdout)
	menu.Run(ctx)

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
