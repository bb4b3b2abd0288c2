package models

// CatalogEntry represents one product record from the commerce catalog
// service. Entries are transient; they feed the correlation index and are
// discarded after the run.
type CatalogEntry struct {
	ID               int64  `json:"id"`
	Slug             string `json:"slug"`
	Permalink        string `json:"permalink"`
	Name             string `json:"name"`
	SKU              string `json:"sku"`
	Price            string `json:"price"`
	RegularPrice     string `json:"regular_price"`
	SalePrice        string `json:"sale_price"`
	PriceHTML        string `json:"price_html"`
	Currency         string `json:"currency"`
	StockStatus      string `json:"stock_status"`
	StockQuantity    *int   `json:"stock_quantity"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
}
