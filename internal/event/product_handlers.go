package event

import (
	"context"
	"log/slog"

	"github.com/phatnt99/shelfwise/internal/model"
)

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", ev.ProductID),
		slog.String("barcode", ev.Barcode),
		slog.Int("stock", ev.Stock),
	)

	if ev.Stock <= model.LowStockThreshold {
		s.alertLowStock(ctx, ev.ProductID, ev.Name, ev.Stock)
	}

	return nil
}

func (s *Service) handleStockAdjustedEvent(ctx context.Context, ev StockAdjustedEvent) error {
	if ev.Stock <= model.LowStockThreshold {
		s.alertLowStock(ctx, ev.ProductID, ev.Name, ev.Stock)
	}

	return nil
}

// alertLowStock replaces the low-stock banner the storefront used to compute
// client-side. For now it only logs; a notification channel can hook in here.
func (s *Service) alertLowStock(ctx context.Context, productID int64, name string, stock int) {
	s.logger.WarnContext(ctx, "low stock alert",
		slog.Int64("product_id", productID),
		slog.String("name", name),
		slog.Int("stock", stock),
	)
}
