package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{"  asc  ", "ASC"},
		{"DESC", "DESC"},
		{"desc", "DESC"},
		{"   ", "DESC"},
		{"INVALID", "DESC"},
		{"ASC; DROP TABLE declarations;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("whitelisted field passes through", func(t *testing.T) {
		assert.Equal(t, "customs_reference_number", ValidateSortField("customs_reference_number", DeclarationSortFields, "created_at"))
		assert.Equal(t, "status", ValidateSortField("status", DeclarationSortFields, "created_at"))
	})

	t.Run("blank or unknown field falls back to the default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", DeclarationSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("   ", DeclarationSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("no_such_column", DeclarationSortFields, "created_at"))
	})

	t.Run("whitespace is trimmed before the whitelist check", func(t *testing.T) {
		assert.Equal(t, "status", ValidateSortField("  status  ", DeclarationSortFields, "created_at"))
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("STATUS", DeclarationSortFields, "created_at"))
	})

	t.Run("empty default stays empty for unknown fields", func(t *testing.T) {
		assert.Equal(t, "", ValidateSortField("no_such_column", DeclarationSortFields, ""))
		assert.Equal(t, "status", ValidateSortField("status", DeclarationSortFields, ""))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"UserSortFields":        UserSortFields,
		"DeclarationSortFields": DeclarationSortFields,
		"LocationSortFields":    LocationSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should allow '%s'", name, field)
			}
		})
	}

	t.Run("declaration listing covers the review screen columns", func(t *testing.T) {
		for _, field := range []string{"customs_reference_number", "status"} {
			assert.True(t, DeclarationSortFields[field])
		}
	})
}

func TestSortValidationRejectsInjection(t *testing.T) {
	payloads := []string{
		"customs_reference_number; DROP TABLE declarations;--",
		"status' OR '1'='1",
		"status\"; DROP TABLE declarations;--",
		"id UNION SELECT password_hash FROM users",
		"id, (SELECT password_hash FROM users)",
		"CASE WHEN 1=1 THEN id ELSE status END",
		"id/**/;DROP TABLE declarations",
		"id\n; DROP TABLE declarations",
		"id\t; DROP TABLE declarations",
		"' OR ''='",
	}

	for _, payload := range payloads {
		t.Run(payload[:min(len(payload), 30)], func(t *testing.T) {
			assert.Equal(t, "created_at", ValidateSortField(payload, DeclarationSortFields, "created_at"))
			assert.Equal(t, "DESC", ValidateSortOrder(payload))
		})
	}
}
