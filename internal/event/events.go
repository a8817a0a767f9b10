package event

const (
	TopicProductCreated = "product.created"
	TopicStockAdjusted  = "product.stock_adjusted"
)

type ProductCreatedEvent struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Barcode   string  `json:"barcode"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

type StockAdjustedEvent struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Stock     int    `json:"stock"`
}
