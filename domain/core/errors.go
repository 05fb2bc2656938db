package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrMissingColumn     = errors.New("required column missing")
	ErrEmptyDataset      = errors.New("dataset has no data rows")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Analysis errors
	ErrNoDefinedCorrelation = errors.New("no question produced a defined correlation")
)

// NewMissingColumnError reports which column a dataset lacks
func NewMissingColumnError(dataset, column string) error {
	return fmt.Errorf("%w: %s has no %q column", ErrMissingColumn, dataset, column)
}

// NewUnsupportedFormatError reports an input path whose format no reader handles
func NewUnsupportedFormatError(path string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// IsInputError reports whether err stems from malformed input data
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrUnsupportedFormat)
}
