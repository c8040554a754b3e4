package amm

import "errors"

// EmptyPoolCode is the custom program error code reported for swaps
// against a pool with an empty side.
const EmptyPoolCode = 412

var (
	ErrInvalidIntent      = errors.New("invalid intent")
	ErrEmptyPool          = errors.New("can't swap in an empty pool")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
