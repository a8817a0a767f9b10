package apperr

import (
	"fmt"

	"github.com/phatnt99/shelfwise/pkg/zerror"
)

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	BarcodeTakenCode       = "BARCODE_TAKEN"
	NegativeStockCode      = "NEGATIVE_STOCK"
	SettingsNotFoundCode   = "SETTINGS_NOT_FOUND"
	InvalidThemeCode       = "INVALID_THEME"
	StorageUnavailableCode = "STORAGE_UNAVAILABLE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	BarcodeTakenErr    = zerror.NewConflict(BarcodeTakenCode, "a product with this barcode already exists")
	NegativeStockErr   = zerror.NewValidationFailed(NegativeStockCode, "stock must not be negative")

	SettingsNotFoundErr = zerror.NewNotFound(SettingsNotFoundCode, "settings not found for this user")
	InvalidThemeErr     = zerror.NewValidationFailed(InvalidThemeCode, "theme must be one of [light dark]")

	StorageUnavailableErr = zerror.NewInternalServerError(StorageUnavailableCode, "storage backend unavailable")
)

// BarcodeNotFound reports an unresolved barcode scan. The scanned code is
// echoed in the message so the client can pre-fill its new-product form.
func BarcodeNotFound(barcode string) zerror.ZError {
	return zerror.NewNotFound(ProductNotFoundCode, fmt.Sprintf("no product with barcode %s", barcode))
}
