// Package replica mirrors mutations to a secondary Postgres backend.
//
// Writes are best-effort: a failed mirror write is logged and never affects
// the outcome reported to the caller, and reads only ever consult the
// primary. The replica is therefore a write-only shadow copy with no
// read-path guarantee and no reconciliation mechanism.
package replica

import (
	"context"
	"log/slog"

	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/repository"
	"github.com/phatnt99/shelfwise/internal/storage/db"
)

type Mirror struct {
	logger       *slog.Logger
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

// NewMirror creates a mirror writing through the given replica database.
func NewMirror(logger *slog.Logger, replicaDB db.DB) *Mirror {
	return &Mirror{
		logger:       logger.With(slog.String("service", "replica")),
		productRepo:  repository.NewProductRepository(replicaDB),
		settingsRepo: repository.NewSettingsRepository(replicaDB),
	}
}

func (m *Mirror) ProductSaved(ctx context.Context, product model.Product) {
	if err := m.productRepo.UpsertProduct(ctx, product); err != nil {
		m.logger.WarnContext(ctx, "replica product write failed",
			slog.Int64("product_id", product.ID),
			slog.Any("error", err))
	}
}

func (m *Mirror) ProductDeleted(ctx context.Context, id int64) {
	if err := m.productRepo.DeleteProduct(ctx, id); err != nil {
		m.logger.WarnContext(ctx, "replica product delete failed",
			slog.Int64("product_id", id),
			slog.Any("error", err))
	}
}

func (m *Mirror) SettingsSaved(ctx context.Context, settings model.Settings) {
	if _, err := m.settingsRepo.SaveSettings(ctx, repository.SaveSettingsParams{
		UserKey:  settings.UserKey,
		Username: settings.Username,
		Theme:    settings.Theme,
	}); err != nil {
		m.logger.WarnContext(ctx, "replica settings write failed",
			slog.String("user_key", settings.UserKey),
			slog.Any("error", err))
	}
}
