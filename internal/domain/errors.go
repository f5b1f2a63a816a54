// internal/domain/errors.go
package domain

import "errors"

// Validation errors surfaced before the metrics engine runs. Everything else
// the pipeline recovers from internally (forecast failures fall back, short
// series degrade to defaults).
var (
	ErrMissingIdentity   = errors.New("product and market are required")
	ErrMissingMarket     = errors.New("market parameters are required")
	ErrNegativeStock     = errors.New("current stock must be >= 0")
	ErrNonPositiveDaily  = errors.New("current daily sales must be > 0")
	ErrNegativeSales     = errors.New("sales observations must be >= 0")
	ErrInvalidLeadTime   = errors.New("lead time must be > 0 days")
	ErrInvalidBufferDays = errors.New("buffer days must be >= 0")
	ErrInvalidCost       = errors.New("costs must be >= 0")
	ErrNoLines           = errors.New("at least one product line is required")
)
