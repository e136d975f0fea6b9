package gdp

import "errors"

var (
	ErrDataFormat       = errors.New("malformed gdp dataset")
	ErrQueryFormat      = errors.New("malformed query")
	ErrNotFound         = errors.New("gdp data not found")
	ErrUnavailable      = errors.New("gdp value not available")
	ErrInsufficientData = errors.New("not enough data points")
	ErrNoPreviousData   = errors.New("no previously mentioned gdp data")
)
