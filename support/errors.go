package support

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidThreshold is returned for a support or confidence outside (0,1].
	ErrInvalidThreshold = errors.New("support: threshold must be in (0,1]")

	// ErrEmptyDatabase is returned when mining is asked to run over zero
	// transactions; support is undefined there.
	ErrEmptyDatabase = errors.New("support: empty transaction database")

	// ErrInconsistentTable means a lookup missed an itemset that should have
	// been counted alongside the itemsets it was asked about.
	ErrInconsistentTable = errors.New("support: itemset missing from support table")

	// ErrEmptyItemset is returned when an empty itemset is stored as a key.
	ErrEmptyItemset = errors.New("support: empty itemset")

	// ErrInvalidMaxLength is returned for a negative itemset length bound.
	ErrInvalidMaxLength = errors.New("support: max length must not be negative")
)

// ValidateThreshold checks that v lies in (0,1]. name only decorates the error.
func ValidateThreshold(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return errors.Wrapf(ErrInvalidThreshold, "%s=%v", name, v)
	}
	return nil
}

// ValidateMaxLength accepts 0, meaning unbounded, and any positive length.
func ValidateMaxLength(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrInvalidMaxLength, "max_length=%d", n)
	}
	return nil
}

// Meets is the single frequency test shared by every engine, so that
// identical counts always produce identical decisions.
func Meets(count, total int, min float64) bool {
	return Ratio(count, total) >= min
}

func Ratio(count, total int) float64 {
	return float64(count) / float64(total)
}
