package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/service"
	"github.com/phatnt99/shelfwise/pkg/validator"
)

// stubProductService lets each test plug in just the methods it exercises.
type stubProductService struct {
	createProduct       func(ctx context.Context, params service.CreateProductParams) (model.Product, error)
	listProducts        func(ctx context.Context) ([]model.Product, error)
	listLowStock        func(ctx context.Context, threshold int) ([]model.Product, error)
	getProductByBarcode func(ctx context.Context, barcode string) (model.Product, error)
	updateProduct       func(ctx context.Context, params service.UpdateProductParams) (model.Product, error)
	adjustStock         func(ctx context.Context, id int64, delta int) (model.Product, error)
	setStock            func(ctx context.Context, id int64, stock int) (model.Product, error)
	deleteProduct       func(ctx context.Context, id int64) error
	scanBarcode         func(ctx context.Context, barcode string) (model.Product, error)
}

func (s *stubProductService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	return s.createProduct(ctx, params)
}

func (s *stubProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.listProducts(ctx)
}

func (s *stubProductService) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return s.listLowStock(ctx, threshold)
}

func (s *stubProductService) GetProductByBarcode(ctx context.Context, barcode string) (model.Product, error) {
	return s.getProductByBarcode(ctx, barcode)
}

func (s *stubProductService) UpdateProduct(ctx context.Context, params service.UpdateProductParams) (model.Product, error) {
	return s.updateProduct(ctx, params)
}

func (s *stubProductService) AdjustStock(ctx context.Context, id int64, delta int) (model.Product, error) {
	return s.adjustStock(ctx, id, delta)
}

func (s *stubProductService) SetStock(ctx context.Context, id int64, stock int) (model.Product, error) {
	return s.setStock(ctx, id, stock)
}

func (s *stubProductService) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteProduct(ctx, id)
}

func (s *stubProductService) ScanBarcode(ctx context.Context, barcode string) (model.Product, error) {
	return s.scanBarcode(ctx, barcode)
}

type stubSettingsService struct {
	getSettings  func(ctx context.Context, userKey string) (model.Settings, error)
	saveSettings func(ctx context.Context, params service.SaveSettingsParams) (model.Settings, error)
}

func (s *stubSettingsService) GetSettings(ctx context.Context, userKey string) (model.Settings, error) {
	return s.getSettings(ctx, userKey)
}

func (s *stubSettingsService) SaveSettings(ctx context.Context, params service.SaveSettingsParams) (model.Settings, error) {
	return s.saveSettings(ctx, params)
}

type stubHealth struct {
	healthy bool
}

func (s stubHealth) IsHealthy(_ context.Context) (bool, error) {
	return s.healthy, nil
}

// newTestRouter builds the production route table around stub services. The
// Service struct is assembled directly so no metrics collectors get
// registered twice across tests.
func newTestRouter(t *testing.T, productSvc service.ProductService, settingsSvc service.SettingsService) *chi.Mux {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	responder := newResponder(logger)

	s := &Service{
		logger:          logger,
		productHandler:  newProductHandler(responder, v, productSvc),
		settingsHandler: newSettingsHandler(responder, v, settingsSvc),
		healthHandler:   newHealthHandler(responder, stubHealth{healthy: true}),
	}

	r := chi.NewRouter()
	s.RegisterHandlers(r)
	return r
}

func doRequest(r *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func TestListProductsRoute(t *testing.T) {
	t.Run("Should return products", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			listProducts: func(_ context.Context) ([]model.Product, error) {
				return []model.Product{
					{ID: 2, Name: "Bread", Barcode: "5001"},
					{ID: 1, Name: "Milk", Barcode: "4001"},
				}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodGet, "/api/products", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		products := decodeBody[[]model.Product](t, resp)
		require.Len(t, products, 2)
		assert.Equal(t, int64(2), products[0].ID)
	})
}

func TestCreateProductRoute(t *testing.T) {
	t.Run("Should create product", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			createProduct: func(_ context.Context, params service.CreateProductParams) (model.Product, error) {
				return model.Product{ID: 1, Name: params.Name, Barcode: params.Barcode, Price: params.Price, Stock: params.Stock}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products", map[string]any{
			"name": "Milk", "barcode": "4001", "price": 1.49, "stock": 10,
		})

		assert.Equal(t, http.StatusCreated, resp.Code)
		product := decodeBody[model.Product](t, resp)
		assert.Equal(t, int64(1), product.ID)
		assert.Equal(t, 10, product.Stock)
	})

	t.Run("Should accept zero stock", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			createProduct: func(_ context.Context, params service.CreateProductParams) (model.Product, error) {
				return model.Product{ID: 1, Stock: params.Stock}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products", map[string]any{
			"name": "Milk", "barcode": "4001", "price": 1.49, "stock": 0,
		})

		assert.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("Should reject missing fields", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products", map[string]any{"name": "Milk"})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		body := decodeBody[errorBody](t, resp)
		assert.NotEmpty(t, body.Details)
	})

	t.Run("Should reject negative stock", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products", map[string]any{
			"name": "Milk", "barcode": "4001", "price": 1.49, "stock": -1,
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Should map barcode conflict to 409", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			createProduct: func(_ context.Context, _ service.CreateProductParams) (model.Product, error) {
				return model.Product{}, apperr.BarcodeTakenErr
			},
		}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products", map[string]any{
			"name": "Milk", "barcode": "4001", "price": 1.49, "stock": 10,
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, apperr.BarcodeTakenCode, body.Code)
	})
}

func TestUpdateProductRoute(t *testing.T) {
	t.Run("Should replace product with a full body", func(t *testing.T) {
		var got service.UpdateProductParams
		r := newTestRouter(t, &stubProductService{
			updateProduct: func(_ context.Context, params service.UpdateProductParams) (model.Product, error) {
				got = params
				return model.Product{ID: params.ID, Name: params.Name}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodPut, "/api/products/7", map[string]any{
			"name": "Whole milk", "barcode": "4002", "price": 1.99, "stock": 3,
		})

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "Whole milk", got.Name)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("Should set absolute stock with a stock-only body", func(t *testing.T) {
		var gotID int64
		var gotStock int
		r := newTestRouter(t, &stubProductService{
			setStock: func(_ context.Context, id int64, stock int) (model.Product, error) {
				gotID, gotStock = id, stock
				return model.Product{ID: id, Stock: stock}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodPut, "/api/products/7", map[string]any{"stock": 0})

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, int64(7), gotID)
		assert.Equal(t, 0, gotStock)
	})

	t.Run("Should reject negative stock in a full body", func(t *testing.T) {
		serviceCalled := false
		r := newTestRouter(t, &stubProductService{
			updateProduct: func(_ context.Context, _ service.UpdateProductParams) (model.Product, error) {
				serviceCalled = true
				return model.Product{}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodPut, "/api/products/7", map[string]any{
			"name": "Milk", "barcode": "4001", "price": 1.49, "stock": -5,
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.False(t, serviceCalled)
		body := decodeBody[errorBody](t, resp)
		require.NotEmpty(t, body.Details)
		assert.Equal(t, "Stock", body.Details[0].Field)
	})

	t.Run("Should map negative stock-only body to 400", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			setStock: func(_ context.Context, _ int64, _ int) (model.Product, error) {
				return model.Product{}, apperr.NegativeStockErr
			},
		}, nil)

		resp := doRequest(r, http.MethodPut, "/api/products/7", map[string]any{"stock": -5})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, apperr.NegativeStockCode, body.Code)
	})

	t.Run("Should reject a non-numeric id", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{}, nil)

		resp := doRequest(r, http.MethodPut, "/api/products/abc", map[string]any{"stock": 1})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Should map unknown product to 404", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			updateProduct: func(_ context.Context, _ service.UpdateProductParams) (model.Product, error) {
				return model.Product{}, apperr.ProductNotFoundErr
			},
		}, nil)

		resp := doRequest(r, http.MethodPut, "/api/products/999", map[string]any{
			"name": "x", "barcode": "x", "price": 1, "stock": 1,
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, apperr.ProductNotFoundCode, body.Code)
	})
}

func TestDeleteProductRoute(t *testing.T) {
	t.Run("Should delete product", func(t *testing.T) {
		var gotID int64
		r := newTestRouter(t, &stubProductService{
			deleteProduct: func(_ context.Context, id int64) error {
				gotID = id
				return nil
			},
		}, nil)

		resp := doRequest(r, http.MethodDelete, "/api/products/7", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, int64(7), gotID)
		body := decodeBody[deleteProductResponse](t, resp)
		assert.True(t, body.Success)
	})

	t.Run("Should report success for an already-absent product", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			deleteProduct: func(_ context.Context, _ int64) error {
				return apperr.ProductNotFoundErr
			},
		}, nil)

		resp := doRequest(r, http.MethodDelete, "/api/products/999", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody[deleteProductResponse](t, resp)
		assert.True(t, body.Success)
	})
}

func TestScanBarcodeRoute(t *testing.T) {
	t.Run("Should return product with bumped stock for a known barcode", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			scanBarcode: func(_ context.Context, barcode string) (model.Product, error) {
				return model.Product{ID: 1, Barcode: barcode, Stock: 4}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products/scan", map[string]any{"barcode": "4001"})

		assert.Equal(t, http.StatusOK, resp.Code)
		product := decodeBody[model.Product](t, resp)
		assert.Equal(t, "4001", product.Barcode)
		assert.Equal(t, 4, product.Stock)
	})

	t.Run("Should map unknown barcode to 404", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{
			scanBarcode: func(_ context.Context, _ string) (model.Product, error) {
				return model.Product{}, apperr.ProductNotFoundErr
			},
		}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products/scan", map[string]any{"barcode": "no-such-code"})

		assert.Equal(t, http.StatusNotFound, resp.Code)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, apperr.ProductNotFoundCode, body.Code)
		assert.Contains(t, body.Message, "no-such-code")
	})

	t.Run("Should reject missing barcode", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{}, nil)

		resp := doRequest(r, http.MethodPost, "/api/products/scan", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestListLowStockRoute(t *testing.T) {
	t.Run("Should use the default threshold", func(t *testing.T) {
		var gotThreshold int
		r := newTestRouter(t, &stubProductService{
			listLowStock: func(_ context.Context, threshold int) ([]model.Product, error) {
				gotThreshold = threshold
				return []model.Product{}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodGet, "/api/products/low-stock", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, model.LowStockThreshold, gotThreshold)
	})

	t.Run("Should accept an explicit threshold", func(t *testing.T) {
		var gotThreshold int
		r := newTestRouter(t, &stubProductService{
			listLowStock: func(_ context.Context, threshold int) ([]model.Product, error) {
				gotThreshold = threshold
				return []model.Product{}, nil
			},
		}, nil)

		resp := doRequest(r, http.MethodGet, "/api/products/low-stock?threshold=10", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 10, gotThreshold)
	})

	t.Run("Should reject a malformed threshold", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{}, nil)

		resp := doRequest(r, http.MethodGet, "/api/products/low-stock?threshold=abc", nil)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestHealthzRoute(t *testing.T) {
	t.Run("Should report ok when the database is reachable", func(t *testing.T) {
		r := newTestRouter(t, &stubProductService{}, nil)

		resp := doRequest(r, http.MethodGet, "/healthz", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "ok")
	})
}
