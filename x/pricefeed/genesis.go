package pricefeed

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/foresta-global/pricefeed/x/pricefeed/keeper"
	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// InitGenesis initializes the pricefeed module state from genesis data.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, data types.GenesisState) {
	if err := data.Validate(); err != nil {
		panic(errorsmod.Wrapf(err, "invalid pricefeed genesis state"))
	}

	if err := k.SetParams(ctx, data.Params); err != nil {
		panic(errorsmod.Wrapf(err, "error setting params"))
	}

	if err := k.SetWindow(ctx, data.Window); err != nil {
		panic(errorsmod.Wrapf(err, "error setting aggregation window"))
	}

	k.SetThrottleState(ctx, types.ThrottleState{NextEligibleHeight: data.NextEligibleHeight})
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	return types.NewGenesisState(
		k.GetParams(ctx),
		k.GetWindow(ctx),
		k.GetThrottleState(ctx).NextEligibleHeight,
	)
}
