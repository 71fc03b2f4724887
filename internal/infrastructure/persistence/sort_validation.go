package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"service_number": true,
	"name":           true,
	"email":          true,
	"role":           true,
	"last_login_at":  true,
}

// DeclarationSortFields contains allowed sort fields for declarations
var DeclarationSortFields = map[string]bool{
	"id":                       true,
	"created_at":               true,
	"updated_at":               true,
	"status":                   true,
	"customs_reference_number": true,
	"assessment_serial":        true,
	"assessed_at":              true,
	"passport_number":          true,
	"office":                   true,
}

// LocationSortFields contains allowed sort fields for command locations
var LocationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
}
