package utils

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GenerateID returns a fresh connection-scoped player id.
func GenerateID() string {
	return uuid.NewString()
}

// NormalizeName trims a display name; blank names stay blank.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
