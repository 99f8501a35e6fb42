package persistence

import "strings"

// ValidateSortOrder normalizes the sort direction, DESC when invalid
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist, falling
// back to defaultField. Sort fields reach SQL unquoted so anything not
// whitelisted is rejected.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"category":      true,
	"price":         true,
	"selling_price": true,
	"sold":          true,
	"platform":      true,
	"listed_at":     true,
	"sold_at":       true,
}

// ShipmentSortFields contains allowed sort fields for shipments
var ShipmentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"tracking_number": true,
	"carrier":         true,
	"status":          true,
}
