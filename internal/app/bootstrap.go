package app

import (
	"context"
	"log/slog"
	"time"

	"trading_go/internal/domain"
	"trading_go/internal/engine"
	"trading_go/internal/infra"
	"trading_go/internal/infra/binance"
	"trading_go/internal/infra/storage"
	"trading_go/internal/ledger"
	"trading_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Client  *binance.Client
	Prices  *service.PriceService
	Metrics *infra.Metrics
	Engine  *engine.Engine
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, DB, exchange client)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Trading Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Exchange Client + Services
	b.Client = binance.NewClient(cfg)
	b.Prices = service.NewPriceService()
	b.Metrics = &infra.Metrics{}

	// 5. Strategy Engine
	b.Engine = engine.NewEngine(b.Client, ledger.NewLedger(), store, cfg.DefaultTick(), b.Metrics)
	slog.Info("✅ Strategy engine ready")

	return nil
}

// SyncSymbols refreshes the local symbol metadata cache from the exchange.
// Tick and step sizes drive price quantization, so a failed sync is logged
// but not fatal: the engine falls back to the configured default tick size.
func (b *Bootstrap) SyncSymbols(ctx context.Context) {
	syncSymbolUniverse(ctx, b.Client, b.Storage)
}

// syncSymbolUniverse pulls the exchange symbol universe and upserts it into
// the repository. A single bad symbol is skipped, not fatal.
func syncSymbolUniverse(ctx context.Context, client *binance.Client, repo domain.SymbolRepository) {
	slog.Info("🔄 Starting symbol synchronization...")

	infos, err := client.GetExchangeInfo(ctx)
	if err != nil {
		slog.Error("Failed to fetch exchange info", slog.Any("error", err))
		return
	}

	synced := 0
	now := time.Now()
	for i := range infos {
		info := infos[i]
		info.LastSyncedAt = now
		if err := repo.UpsertSymbol(&info); err != nil {
			slog.Error("Failed to upsert symbol", slog.String("symbol", info.Symbol), slog.Any("error", err))
			continue
		}
		synced++
	}

	slog.Info("✨ Symbol synchronization completed", slog.Int("symbols", synced))
}
