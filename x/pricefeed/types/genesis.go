package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// GenesisState defines the pricefeed module genesis state.
type GenesisState struct {
	Params             Params        `json:"params"`
	Window             []sdkmath.Int `json:"window"`
	NextEligibleHeight int64         `json:"next_eligible_height"`
}

// NewGenesisState creates a new genesis state.
func NewGenesisState(params Params, window []sdkmath.Int, nextEligibleHeight int64) GenesisState {
	return GenesisState{
		Params:             params,
		Window:             window,
		NextEligibleHeight: nextEligibleHeight,
	}
}

// DefaultGenesisState returns a default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params:             DefaultParams(),
		Window:             []sdkmath.Int{},
		NextEligibleHeight: 0,
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	if uint64(len(gs.Window)) > gs.Params.WindowCapacity {
		return fmt.Errorf("window length %d exceeds capacity %d", len(gs.Window), gs.Params.WindowCapacity)
	}

	for i, price := range gs.Window {
		if price.IsNil() || price.IsNegative() {
			return fmt.Errorf("invalid window entry at %d: %v", i, price)
		}
	}

	if gs.NextEligibleHeight < 0 {
		return fmt.Errorf("next eligible height cannot be negative: %d", gs.NextEligibleHeight)
	}

	return nil
}
