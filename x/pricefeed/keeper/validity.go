package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// UnsignedPriority is the base pool priority of pricefeed submissions.
const UnsignedPriority uint64 = 100

// CheckSubmission is the validity predicate the transaction pool runs against
// a candidate submission before inclusion. It inspects replicated state but
// never mutates it, so the pool may evaluate many candidates concurrently
// against the same snapshot. Checks short-circuit in order: source, payload
// shape, recency, signature, throttle.
func (k Keeper) CheckSubmission(ctx sdk.Context, sub types.Submission, source types.Source) (types.Validity, error) {
	if sub.Kind == types.KindLocal && source == types.SourceExternal {
		return types.Validity{}, errorsmod.Wrap(types.ErrInvalidSource, "local submission relayed from peer")
	}

	if err := sub.Payload.Validate(); err != nil {
		return types.Validity{}, errorsmod.Wrap(types.ErrInvalidPayload, err.Error())
	}

	params := k.GetParams(ctx)
	currentHeight := ctx.BlockHeight()

	if sub.Payload.BlockNumber+params.RecencyWindow < currentHeight {
		return types.Validity{}, errorsmod.Wrapf(types.ErrStale,
			"payload height %d, current height %d, recency window %d",
			sub.Payload.BlockNumber, currentHeight, params.RecencyWindow)
	}

	if sub.Payload.BlockNumber > currentHeight+params.RecencyWindow {
		return types.Validity{}, errorsmod.Wrapf(types.ErrFuture,
			"payload height %d, current height %d, recency window %d",
			sub.Payload.BlockNumber, currentHeight, params.RecencyWindow)
	}

	if sub.Kind == types.KindSigned && !sub.Payload.VerifySignature(sub.Signature) {
		return types.Validity{}, errorsmod.Wrap(types.ErrBadSignature, "payload signature verification failed")
	}

	if !k.IsEligible(ctx, currentHeight) {
		return types.Validity{}, errorsmod.Wrapf(types.ErrThrottled,
			"next eligible height %d, current height %d",
			k.GetThrottleState(ctx).NextEligibleHeight, currentHeight)
	}

	return types.Validity{
		// Fresher payloads outrank older ones competing for the same slot.
		Priority:  UnsignedPriority + uint64(sub.Payload.BlockNumber),
		Longevity: params.RecencyWindow,
		UniqueTag: sub.Payload.UniqueTag(),
		Propagate: sub.Kind == types.KindSigned,
	}, nil
}
