// Package flags stores operator switches in Redis. The router consults the
// pause switches before submitting anything on chain.
package flags

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("flag not found")
	ErrInvalidKey = errors.New("invalid flag key")
)

// Flag is a named boolean switch. Reason is free text for operators.
type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pause switch names. A pause applies to every operation, to one operation
// kind, or to every operation on one pool (keyed by swap account).
const (
	PauseAll        = "pause.all"
	pausePrefix     = "pause."
	pausePoolPrefix = "pause.pool."
)

// PauseKey returns the switch that pauses one operation kind
func PauseKey(kind string) string {
	return pausePrefix + kind
}

// PausePoolKey returns the switch that pauses every operation on a pool
func PausePoolKey(pool string) string {
	return pausePoolPrefix + pool
}
