package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/event"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/repository"
	"github.com/phatnt99/shelfwise/internal/storage/db"
	"github.com/phatnt99/shelfwise/pkg/outbox"
	"github.com/phatnt99/shelfwise/pkg/ptr"
)

type CreateProductParams struct {
	Name    string
	Barcode string
	Price   float64
	Stock   int
}

type UpdateProductParams struct {
	ID      int64
	Name    string
	Barcode string
	Price   float64
	Stock   int
}

// Mirror receives successful primary mutations for best-effort replication.
type Mirror interface {
	ProductSaved(ctx context.Context, product model.Product)
	ProductDeleted(ctx context.Context, id int64)
	SettingsSaved(ctx context.Context, settings model.Settings)
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (model.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ScanBarcode(ctx context.Context, barcode string) (model.Product, error)
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	mirror        Mirror
}

// NewProductService creates the product service. mirror may be nil when no
// replica backend is configured.
func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	mirror Mirror,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		mirror:        mirror,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		product, err = s.productRepo.
			WithDB(db).
			CreateProduct(ctx, repository.CreateProductParams{
				Name:    params.Name,
				Barcode: params.Barcode,
				Price:   params.Price,
				Stock:   params.Stock,
			})
		if err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		ev := event.ProductCreatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			Barcode:   product.Barcode,
			Price:     product.Price,
			Stock:     product.Stock,
		}
		if err := s.createOutboxMsg(ctx, db, event.TopicProductCreated, product.Barcode, ev); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return model.Product{}, err
	}

	if s.mirror != nil {
		s.mirror.ProductSaved(ctx, product)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products, err := s.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("product repository list low stock: %w", err)
	}

	return products, nil
}

func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (model.Product, error) {
	product, err := s.productRepo.GetProductByBarcode(ctx, barcode)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product by barcode: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	if params.Stock < 0 {
		return model.Product{}, apperr.NegativeStockErr
	}

	product, err := s.productRepo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:      params.ID,
		Name:    params.Name,
		Barcode: params.Barcode,
		Price:   params.Price,
		Stock:   params.Stock,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	if s.mirror != nil {
		s.mirror.ProductSaved(ctx, product)
	}

	return product, nil
}

// AdjustStock applies a relative stock change, clamped at zero. Both the
// manual +/- controls and the barcode scan path go through here so the clamp
// is applied uniformly.
func (s *productService) AdjustStock(ctx context.Context, id int64, delta int) (model.Product, error) {
	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		product, err = s.productRepo.
			WithDB(db).
			AdjustStock(ctx, id, delta)
		if err != nil {
			return fmt.Errorf("product repository adjust stock: %w", err)
		}

		return s.createStockAdjustedMsg(ctx, db, product)
	}); err != nil {
		return model.Product{}, err
	}

	if s.mirror != nil {
		s.mirror.ProductSaved(ctx, product)
	}

	return product, nil
}

// SetStock writes an absolute stock level. Unlike AdjustStock, a negative
// value is rejected rather than clamped.
func (s *productService) SetStock(ctx context.Context, id int64, stock int) (model.Product, error) {
	if stock < 0 {
		return model.Product{}, apperr.NegativeStockErr
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		product, err = s.productRepo.
			WithDB(db).
			SetStock(ctx, id, stock)
		if err != nil {
			return fmt.Errorf("product repository set stock: %w", err)
		}

		return s.createStockAdjustedMsg(ctx, db, product)
	}); err != nil {
		return model.Product{}, err
	}

	if s.mirror != nil {
		s.mirror.ProductSaved(ctx, product)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("product repository delete product: %w", err)
	}

	if s.mirror != nil {
		s.mirror.ProductDeleted(ctx, id)
	}

	return nil
}

// ScanBarcode resolves a decoded barcode. A known code increments the
// product's stock by one; an unknown code is reported as not found so the
// caller can offer to create the product. No implicit creation happens here.
func (s *productService) ScanBarcode(ctx context.Context, barcode string) (model.Product, error) {
	product, err := s.productRepo.GetProductByBarcode(ctx, barcode)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product by barcode: %w", err)
	}

	return s.AdjustStock(ctx, product.ID, 1)
}

func (s *productService) createStockAdjustedMsg(ctx context.Context, db db.DB, product model.Product) error {
	ev := event.StockAdjustedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		Barcode:   product.Barcode,
		Stock:     product.Stock,
	}

	return s.createOutboxMsg(ctx, db, event.TopicStockAdjusted, product.Barcode, ev)
}

func (s *productService) createOutboxMsg(ctx context.Context, db db.DB, topic, partitionKey string, ev any) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      evBytes,
			PartitionKey: ptr.New(partitionKey),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
