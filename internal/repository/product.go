package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/storage/db"
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

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (model.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	UpsertProduct(ctx context.Context, product model.Product) error
}

const productColumns = "id, name, barcode, price, stock, created_at, updated_at"

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	price, err := numericFromFloat(params.Price)
	if err != nil {
		return model.Product{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, barcode, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns,
		params.Name, params.Barcode, price, params.Stock,
	)

	product, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Product{}, apperr.BarcodeTakenErr.WrapParent(err)
		}
		return model.Product{}, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("create product: %w", err))
	}

	return product, nil
}

func (r productRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	// Most recently created first. Ids are monotonic, so this also gives a
	// stable insertion-order tie-break.
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY id DESC`,
	)
	if err != nil {
		return nil, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("list products: %w", err))
	}

	return collectProducts(rows)
}

func (r productRepository) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE stock <= $1
		ORDER BY id DESC`,
		threshold,
	)
	if err != nil {
		return nil, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("list low stock: %w", err))
	}

	return collectProducts(rows)
}

func (r productRepository) GetProductByBarcode(ctx context.Context, barcode string) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE barcode = $1`,
		barcode,
	)

	return scanProductOrNotFound(row, fmt.Sprintf("get product by barcode %s", barcode))
}

func (r productRepository) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	price, err := numericFromFloat(params.Price)
	if err != nil {
		return model.Product{}, err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, barcode = $3, price = $4, stock = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		params.ID, params.Name, params.Barcode, price, params.Stock,
	)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		if isUniqueViolation(err) {
			return model.Product{}, apperr.BarcodeTakenErr.WrapParent(err)
		}
		return model.Product{}, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("update product %d: %w", params.ID, err))
	}

	return product, nil
}

func (r productRepository) AdjustStock(ctx context.Context, id int64, delta int) (model.Product, error) {
	// The clamp runs inside the UPDATE so concurrent adjustments can never
	// drive stock below zero.
	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET stock = GREATEST(0, stock + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, delta,
	)

	return scanProductOrNotFound(row, fmt.Sprintf("adjust stock of product %d", id))
}

func (r productRepository) SetStock(ctx context.Context, id int64, stock int) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, stock,
	)

	return scanProductOrNotFound(row, fmt.Sprintf("set stock of product %d", id))
}

func (r productRepository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("delete product %d: %w", id, err))
	}

	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

// UpsertProduct writes a full product row keyed by id. Used by the replica
// mirror, where the primary has already assigned the id.
func (r productRepository) UpsertProduct(ctx context.Context, product model.Product) error {
	price, err := numericFromFloat(product.Price)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, barcode, price, stock, created_at, updated_at)
		OVERRIDING SYSTEM VALUE
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    barcode = EXCLUDED.barcode,
		    price = EXCLUDED.price,
		    stock = EXCLUDED.stock,
		    updated_at = EXCLUDED.updated_at`,
		product.ID, product.Name, product.Barcode, price, product.Stock,
		product.CreatedAt, product.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert product %d: %w", product.ID, err)
	}

	return nil
}

func numericFromFloat(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(fmt.Sprintf("%f", f)); err != nil {
		return n, fmt.Errorf("scan price: %w", err)
	}
	return n, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		product model.Product
		price   pgtype.Numeric
	)

	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Barcode,
		&price,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}

	priceValue, err := price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}
	product.Price = priceValue.Float64

	return product, nil
}

func scanProductOrNotFound(row pgx.Row, op string) (model.Product, error) {
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("%s: %w", op, err))
	}
	return product, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("iterate product rows: %w", err))
	}

	return products, nil
}
