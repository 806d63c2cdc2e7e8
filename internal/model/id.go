package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a cuid-style row id ("c" + 24 hex chars), matching the
// format used by existing rows.
func NewID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "c" + hex[:24]
}
