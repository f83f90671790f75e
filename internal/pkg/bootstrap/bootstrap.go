// Package bootstrap wires the process-wide services shared by the server and
// the command line tools.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/repository"
	"github.com/fielmedina/backend/internal/pkg/assets"
	"github.com/fielmedina/backend/internal/pkg/cache"
	"github.com/fielmedina/backend/internal/pkg/content"
	"github.com/fielmedina/backend/internal/pkg/database"
	"github.com/fielmedina/backend/internal/pkg/env"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/shortener"
	"github.com/fielmedina/backend/internal/pkg/storage"
)

// Runtime holds the wired services.
type Runtime struct {
	DB      *gorm.DB
	Storage *storage.Config
	Files   *storage.StorageManager
	Ledger  assets.OrphanLedger
	Manager *assets.Manager
	Content *content.Service
}

// Setup connects the database, the storage backend and the orphan ledger and
// builds the content service on top.
func Setup(ctx context.Context) (*Runtime, error) {
	if err := env.SetupEnvFile(); err != nil {
		log.Warnf("[Bootstrap] No .env file loaded, using the process environment: %v", err)
	}
	database.SetupDatabase()
	db := database.GetDB()
	repository.InitializeFactory(db)

	cfg, err := storage.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}
	backend, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage backend: %w", err)
	}
	files := storage.NewStorageManager(backend)

	ledger := orphanLedger(ctx)
	manager := assets.NewManager(files, imageprocessor.NewGenerator(), ledger)

	var opts []content.Option
	if s := shortener.New(shortener.LoadConfig()); s != nil {
		opts = append(opts, content.WithLinkShortener(s))
	}
	svc := content.NewService(repository.GetGlobalFactory(), manager, opts...)

	return &Runtime{
		DB:      db,
		Storage: cfg,
		Files:   files,
		Ledger:  ledger,
		Manager: manager,
		Content: svc,
	}, nil
}

// Sweeper returns an orphan sweeper that skips keys a record still uses.
func (r *Runtime) Sweeper() *assets.Sweeper {
	live := content.KeyInUse(repository.GetGlobalRepositories().AssetKey)
	return assets.NewSweeper(r.Files, r.Ledger, live)
}

// orphanLedger uses Redis when it answers, so every instance shares one
// ledger. Without Redis the ledger only lives as long as the process.
func orphanLedger(ctx context.Context) assets.OrphanLedger {
	if !env.GetEnvBool("CACHE_ENABLED", true) {
		log.Warn("[Bootstrap] Cache disabled, orphan ledger is process local")
		return assets.NewMemoryOrphanLedger()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if !cache.Available(pingCtx) {
		log.Warn("[Bootstrap] Cache unreachable, orphan ledger is process local")
		return assets.NewMemoryOrphanLedger()
	}
	return assets.NewRedisOrphanLedger(cache.GetClient(), env.GetEnv("ASSET_ORPHAN_SET", assets.DefaultOrphanSet))
}
