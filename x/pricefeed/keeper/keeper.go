package keeper

import (
	"encoding/binary"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// Keeper owns the replicated pricefeed state: the bounded aggregation window,
// the derived running average and the throttle gate. It is only mutated
// during deterministic block execution.
type Keeper struct {
	cdc      *codec.LegacyAmino
	storeKey storetypes.StoreKey
}

func NewKeeper(cdc *codec.LegacyAmino, storeKey storetypes.StoreKey) *Keeper {
	return &Keeper{
		cdc:      cdc,
		storeKey: storeKey,
	}
}

// SetParams stores the module parameters after validation.
func (k Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyParams, k.cdc.MustMarshalJSON(&params))
	return nil
}

// GetParams returns the module parameters, falling back to defaults when the
// store has not been initialized.
func (k Keeper) GetParams(ctx sdk.Context) types.Params {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyParams)
	if len(bz) == 0 {
		return types.DefaultParams()
	}

	var params types.Params
	k.cdc.MustUnmarshalJSON(bz, &params)
	return params
}

// GetWindow returns the current aggregation window, oldest entry first.
func (k Keeper) GetWindow(ctx sdk.Context) []sdkmath.Int {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyWindow)
	if len(bz) == 0 {
		return []sdkmath.Int{}
	}

	var window []sdkmath.Int
	k.cdc.MustUnmarshalJSON(bz, &window)
	return window
}

// SetWindow replaces the aggregation window and recomputes the stored
// average. The window length must not exceed the configured capacity.
func (k Keeper) SetWindow(ctx sdk.Context, window []sdkmath.Int) error {
	params := k.GetParams(ctx)
	if uint64(len(window)) > params.WindowCapacity {
		return fmt.Errorf("window length %d exceeds capacity %d", len(window), params.WindowCapacity)
	}

	k.setWindow(ctx, window)
	return nil
}

func (k Keeper) setWindow(ctx sdk.Context, window []sdkmath.Int) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyWindow, k.cdc.MustMarshalJSON(window))

	average := computeAverage(window)
	bz, err := average.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(types.KeyAverage, bz)
}

// GetAverage returns the running average over the aggregation window. It is
// the read-only accessor downstream modules consume; it is zero while the
// window is empty.
func (k Keeper) GetAverage(ctx sdk.Context) sdkmath.Int {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyAverage)
	if len(bz) == 0 {
		return sdkmath.ZeroInt()
	}

	var average sdkmath.Int
	if err := average.Unmarshal(bz); err != nil {
		panic(err)
	}
	return average
}

// GetThrottleState returns the current submission throttle state.
func (k Keeper) GetThrottleState(ctx sdk.Context) types.ThrottleState {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyNextEligibleHeight)
	if len(bz) == 0 {
		return types.ThrottleState{NextEligibleHeight: 0}
	}

	return types.ThrottleState{NextEligibleHeight: int64(binary.BigEndian.Uint64(bz))}
}

// SetThrottleState stores the submission throttle state.
func (k Keeper) SetThrottleState(ctx sdk.Context, state types.ThrottleState) {
	store := ctx.KVStore(k.storeKey)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(state.NextEligibleHeight))
	store.Set(types.KeyNextEligibleHeight, bz)
}

// IsEligible reports whether a submission at the given height currently
// passes the throttle gate. Pure read, safe for concurrent validity checks.
func (k Keeper) IsEligible(ctx sdk.Context, height int64) bool {
	return k.GetThrottleState(ctx).IsEligible(height)
}

// computeAverage returns the integer mean of the window, truncated toward
// zero, and zero for an empty window. Truncation keeps the result identical
// on every replica regardless of platform.
func computeAverage(window []sdkmath.Int) sdkmath.Int {
	if len(window) == 0 {
		return sdkmath.ZeroInt()
	}

	sum := sdkmath.ZeroInt()
	for _, price := range window {
		sum = sum.Add(price)
	}

	return sum.Quo(sdkmath.NewInt(int64(len(window))))
}

func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
