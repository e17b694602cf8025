package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// ExecuteSubmission folds a validated submission into replicated state during
// block execution: the price is appended to the window (evicting the oldest
// entry at capacity), the average is recomputed and the throttle gate is
// advanced. The payload has already passed CheckSubmission, so this step is
// total; a failing precondition here means the validity checker and the
// execution path disagree, which is fatal.
func (k Keeper) ExecuteSubmission(ctx sdk.Context, payload types.PricePayload) {
	params := k.GetParams(ctx)
	currentHeight := ctx.BlockHeight()

	state := k.GetThrottleState(ctx)
	if !state.IsEligible(currentHeight) {
		panic(errorsmod.Wrapf(types.ErrInvariantBroken,
			"executing throttled submission: next eligible height %d, current height %d",
			state.NextEligibleHeight, currentHeight))
	}

	if err := payload.Validate(); err != nil {
		panic(errorsmod.Wrap(types.ErrInvariantBroken, err.Error()))
	}

	window := append(k.GetWindow(ctx), payload.Price)
	for uint64(len(window)) > params.WindowCapacity {
		window = window[1:]
	}
	k.setWindow(ctx, window)

	k.SetThrottleState(ctx, state.Advance(currentHeight, params.ThrottleInterval))

	average := k.GetAverage(ctx)
	k.Logger(ctx).Info("price submission executed",
		"price", payload.Price.String(),
		"average", average.String(),
		"window_size", len(window),
	)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeAverageUpdated,
		sdk.NewAttribute(types.AttributeKeyPrice, payload.Price.String()),
		sdk.NewAttribute(types.AttributeKeyAverage, average.String()),
		sdk.NewAttribute(types.AttributeKeyWindowSize, fmt.Sprintf("%d", len(window))),
		sdk.NewAttribute(types.AttributeKeySubmitter, fmt.Sprintf("%X", payload.Submitter)),
		sdk.NewAttribute(types.AttributeKeyBlockNumber, fmt.Sprintf("%d", payload.BlockNumber)),
	))
}
