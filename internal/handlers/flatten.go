package handlers

import (
	"strings"

	"backend/internal/models"
)

// flattenObject turns a nested update payload into dotted-path assignments,
// so a partial nested update merges at field level instead of clobbering
// sibling fields. Arrays are treated as leaves and replaced wholesale.
func flattenObject(input map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, "", input)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, input map[string]interface{}) {
	for key, value := range input {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenInto(out, name, nested)
			continue
		}
		out[name] = value
	}
}

// hasFinancialField reports whether any flattened update key targets a
// financial field, by exact match or dotted-path suffix.
func hasFinancialField(fields map[string]interface{}) bool {
	for key := range fields {
		for _, financial := range models.FinancialFields {
			if key == financial || strings.HasSuffix(key, "."+financial) {
				return true
			}
		}
	}
	return false
}

// immutableFields may not be changed through the generic update path.
var immutableFields = []string{
	"_id", "uniqueBookingId", "organisationId", "adminId", "userId", "createdAt",
}

func stripImmutableFields(fields map[string]interface{}) {
	for _, name := range immutableFields {
		delete(fields, name)
	}
}
