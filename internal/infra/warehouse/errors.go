package warehouse

import "errors"

var (
	// ErrUnsupportedDriver indicates an unknown WAREHOUSE_DRIVER value.
	ErrUnsupportedDriver = errors.New("unsupported warehouse driver")

	// ErrInvalidIdentifier indicates a schema, table or other object name that cannot be quoted safely.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
