package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// Input bounds.
const (
	// MaxNodeIDLength bounds node identifiers accepted from external input.
	MaxNodeIDLength = 256
	// MaxDimension bounds each side of a drawing surface, in pixels.
	MaxDimension = 8192
)

// Formats lists the output formats the renderer understands.
var Formats = []string{"svg", "png", "json", "dot", "txt"}

// ValidateNodeID validates a node identifier read from a document or a request.
//
// Identifiers must be non-empty, at most MaxNodeIDLength bytes and free of
// control characters. Any other character is allowed.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidNode, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateFormat validates an output format name. Matching is case-insensitive.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(Formats, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateDimensions validates a canvas size. Both sides must be positive,
// finite and at most MaxDimension.
func ValidateDimensions(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidDimensions, "dimensions must be positive and finite, got %gx%g", width, height)
		}
		if v > MaxDimension {
			return New(ErrCodeInvalidDimensions, "dimensions too large (max %d per side), got %gx%g", MaxDimension, width, height)
		}
	}
	return nil
}
