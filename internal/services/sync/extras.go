package sync

import (
	"github.com/ternarybob/seosync/internal/models"
	"github.com/ternarybob/seosync/internal/normalize"
)

// buildItemExtras assembles the provenance sidecar for one content item: the
// source link, slug and category, plus sanitized fallback title/description
// derived from the item's own rendered fields. The fallbacks are only
// consulted when the authoritative metadata block lacks a value.
func buildItemExtras(item models.ContentItem, category string) models.Extras {
	extras := models.Extras{
		"source":               "content",
		"source_link":          item.Link,
		"slug":                 item.Slug,
		"content_category":     category,
		"fallback_title":       normalize.Sanitize(item.Title.Rendered),
		"fallback_description": normalize.Sanitize(item.Excerpt.Rendered),
	}
	return extras.Prune()
}

// buildCatalogExtras assembles the sidecar for one catalog entry. Every field
// is carried under a product_ prefix; the short description doubles as
// fallback_description so product pages without an authored description still
// get one.
func buildCatalogExtras(entry models.CatalogEntry) models.Extras {
	shortDescription := normalize.Sanitize(entry.ShortDescription)

	extras := models.Extras{
		"product_id":                entry.ID,
		"product_slug":              entry.Slug,
		"product_permalink":         entry.Permalink,
		"product_sku":               entry.SKU,
		"product_price":             entry.Price,
		"product_regular_price":     entry.RegularPrice,
		"product_sale_price":        entry.SalePrice,
		"product_price_html":        entry.PriceHTML,
		"product_currency":          entry.Currency,
		"product_stock_status":      entry.StockStatus,
		"product_name":              normalize.Sanitize(entry.Name),
		"product_short_description": shortDescription,
		"product_description":       normalize.Sanitize(entry.Description),
		"fallback_description":      shortDescription,
	}
	if entry.StockQuantity != nil {
		extras["product_stock_quantity"] = *entry.StockQuantity
	}

	return extras.Prune()
}
