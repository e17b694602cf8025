package types

import (
	"fmt"
)

// Default parameter values. The window capacity bounds the number of prices
// kept on chain, the throttle interval spaces accepted submissions by block
// height, and the recency window bounds how far a payload's block number may
// drift from the current height before it is rejected.
const (
	DefaultWindowCapacity   uint64 = 64
	DefaultThrottleInterval int64  = 10
	DefaultRecencyWindow    int64  = 5
)

// Params defines the replicated parameters of the pricefeed module.
type Params struct {
	WindowCapacity   uint64 `json:"window_capacity"`
	ThrottleInterval int64  `json:"throttle_interval"`
	RecencyWindow    int64  `json:"recency_window"`
}

// DefaultParams returns default pricefeed module parameters
func DefaultParams() Params {
	return Params{
		WindowCapacity:   DefaultWindowCapacity,
		ThrottleInterval: DefaultThrottleInterval,
		RecencyWindow:    DefaultRecencyWindow,
	}
}

// Validate performs basic validation on pricefeed parameters
func (p Params) Validate() error {
	if p.WindowCapacity == 0 {
		return fmt.Errorf("window capacity cannot be zero")
	}

	if p.ThrottleInterval <= 0 {
		return fmt.Errorf("throttle interval must be positive")
	}

	if p.RecencyWindow <= 0 {
		return fmt.Errorf("recency window must be positive")
	}

	return nil
}
