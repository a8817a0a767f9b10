package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/service"
	"github.com/phatnt99/shelfwise/pkg/validator"
	"github.com/phatnt99/shelfwise/pkg/zerror"
)

type productHandler struct {
	responder  *responder
	validator  validator.Validator
	productSvc service.ProductService
}

func newProductHandler(responder *responder, validator validator.Validator, productSvc service.ProductService) *productHandler {
	return &productHandler{
		responder:  responder,
		validator:  validator,
		productSvc: productSvc,
	}
}

type createProductRequest struct {
	Name    string   `json:"name" validate:"required"`
	Barcode string   `json:"barcode" validate:"required"`
	Price   *float64 `json:"price" validate:"required,gte=0"`
	Stock   *int     `json:"stock" validate:"required,gte=0"`
}

// updateProductRequest covers both PUT shapes: the full replace and the
// stock-only absolute set. All fields are pointers so that presence can be
// distinguished from zero values.
type updateProductRequest struct {
	Name    *string  `json:"name" validate:"required"`
	Barcode *string  `json:"barcode" validate:"required"`
	Price   *float64 `json:"price" validate:"required,gte=0"`
	Stock   *int     `json:"stock" validate:"required,gte=0"`
}

func (req updateProductRequest) isStockOnly() bool {
	return req.Name == nil && req.Barcode == nil && req.Price == nil && req.Stock != nil
}

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type deleteProductResponse struct {
	Success bool `json:"success"`
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ListProducts(r.Context())
	if err != nil {
		h.responder.respondError(w, r, fmt.Errorf("product service list products: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusOK, products)
}

func (h *productHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := model.LowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.responder.respondError(w, r, apperr.ValidationErr.WrapParent(
				fmt.Errorf("threshold must be a non-negative integer, got %q", raw)))
			return
		}
		threshold = parsed
	}

	products, err := h.productSvc.ListLowStock(r.Context(), threshold)
	if err != nil {
		h.responder.respondError(w, r, fmt.Errorf("product service list low stock: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusOK, products)
}

func (h *productHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:    req.Name,
		Barcode: req.Barcode,
		Price:   *req.Price,
		Stock:   *req.Stock,
	})
	if err != nil {
		h.responder.respondError(w, r, fmt.Errorf("product service create product: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusCreated, product)
}

func (h *productHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	var product model.Product
	if req.isStockOnly() {
		product, err = h.productSvc.SetStock(r.Context(), id, *req.Stock)
		if err != nil {
			h.responder.respondError(w, r, fmt.Errorf("product service set stock: %w", err))
			return
		}
	} else {
		if err := h.validator.Validate(req); err != nil {
			h.responder.respondError(w, r, err)
			return
		}

		product, err = h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
			ID:      id,
			Name:    *req.Name,
			Barcode: *req.Barcode,
			Price:   *req.Price,
			Stock:   *req.Stock,
		})
		if err != nil {
			h.responder.respondError(w, r, fmt.Errorf("product service update product: %w", err))
			return
		}
	}

	h.responder.respond(w, r, http.StatusOK, product)
}

func (h *productHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	// Deleting an already-absent product reports success: the outcome the
	// caller asked for holds either way.
	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil && !isNotFound(err) {
		h.responder.respondError(w, r, fmt.Errorf("product service delete product: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusOK, deleteProductResponse{Success: true})
}

func (h *productHandler) scanBarcode(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	// Unknown codes come back as 404 with PRODUCT_NOT_FOUND echoing the
	// scanned code; the client uses that to pre-fill its new-product form.
	product, err := h.productSvc.ScanBarcode(r.Context(), req.Barcode)
	if err != nil {
		if isNotFound(err) {
			h.responder.respondError(w, r, apperr.BarcodeNotFound(req.Barcode).WrapParent(err))
			return
		}
		h.responder.respondError(w, r, fmt.Errorf("product service scan barcode: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusOK, product)
}

func productID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.ValidationErr.WrapParent(fmt.Errorf("id must be an integer, got %q", raw))
	}
	return id, nil
}

func isNotFound(err error) bool {
	var zErr zerror.ZError
	return errors.As(err, &zErr) && zErr.Status() == zerror.StatusNotFound
}
