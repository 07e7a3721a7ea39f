package errors

import (
	"math"
	"unicode"
)

// MaxNodeIDLength bounds the length of a node identifier.
const MaxNodeIDLength = 1024

// ValidateNodeID validates a caller-supplied node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters (they would corrupt TSV exports)
//   - Maximum length of MaxNodeIDLength bytes
//
// The "|" character is allowed, though it makes the exported path column
// ambiguous; callers that export to TSV may want to avoid it.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateK validates the requested number of paths.
// K must be positive and must not exceed max.
func ValidateK(k, max int) error {
	if k <= 0 {
		return New(ErrCodeInvalidInput, "k must be positive, got %d", k)
	}
	if k > max {
		return New(ErrCodeInvalidInput, "k too large: %d (max %d)", k, max)
	}
	return nil
}

// ValidateEdgePenalty validates a multiplicative edge penalty.
// The penalty must be a finite number greater than zero.
func ValidateEdgePenalty(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return New(ErrCodeInvalidInput, "edge penalty must be a positive finite number, got %v", p)
	}
	return nil
}

// ValidateProbability validates an edge probability.
// The value must lie in the half-open interval (0, 1].
func ValidateProbability(w float64) error {
	if math.IsNaN(w) || w <= 0 || w > 1 {
		return New(ErrCodeInvalidInput, "probability must be in (0,1], got %v", w)
	}
	return nil
}

// ValidateFinite validates that an additive weight is a finite number.
// Negative values are accepted here; the shortest-path oracle rejects them.
func ValidateFinite(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidInput, "weight must be finite, got %v", w)
	}
	return nil
}
