package ports

import (
	"context"

	"cdicorr/domain/dataset"
	"cdicorr/domain/geo"
)

// TableSource loads one raw tabular dataset. Any error is fatal to the run.
type TableSource interface {
	LoadTable(ctx context.Context) (*dataset.Table, error)
	Describe() string
}

// GeometrySource loads state boundaries keyed by postal abbreviation
type GeometrySource interface {
	LoadGeometry(ctx context.Context) (geo.StateGeometry, error)
	Describe() string
}
