package keeper

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/store"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmdb "github.com/tendermint/tm-db"

	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// setupKeeper creates a new Keeper instance and context for testing
func setupKeeper(t *testing.T) (*Keeper, sdk.Context) {
	storeKey := sdk.NewKVStoreKey(types.StoreKey)
	memStoreKey := storetypes.NewMemoryStoreKey(types.MemStoreKey)

	db := tmdb.NewMemDB()
	stateStore := store.NewCommitMultiStore(db)
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(memStoreKey, storetypes.StoreTypeMemory, nil)
	require.NoError(t, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, tmproto.Header{}, false, log.NewNopLogger())

	keeper := NewKeeper(codec.NewLegacyAmino(), storeKey)

	return keeper, ctx
}

func TestSetAndGetParams(t *testing.T) {
	keeper, ctx := setupKeeper(t)

	// Defaults before anything is stored
	assert.Equal(t, types.DefaultParams(), keeper.GetParams(ctx))

	params := types.Params{
		WindowCapacity:   3,
		ThrottleInterval: 2,
		RecencyWindow:    2,
	}
	require.NoError(t, keeper.SetParams(ctx, params))
	assert.Equal(t, params, keeper.GetParams(ctx))

	// Invalid params are rejected
	err := keeper.SetParams(ctx, types.Params{WindowCapacity: 0, ThrottleInterval: 1, RecencyWindow: 1})
	assert.Error(t, err)
}

func TestSetAndGetWindow(t *testing.T) {
	keeper, ctx := setupKeeper(t)
	require.NoError(t, keeper.SetParams(ctx, types.Params{WindowCapacity: 3, ThrottleInterval: 2, RecencyWindow: 2}))

	// Empty window, zero average
	assert.Empty(t, keeper.GetWindow(ctx))
	assert.True(t, keeper.GetAverage(ctx).IsZero())

	window := []sdkmath.Int{sdkmath.NewInt(100), sdkmath.NewInt(200)}
	require.NoError(t, keeper.SetWindow(ctx, window))
	assert.Equal(t, window, keeper.GetWindow(ctx))
	assert.Equal(t, sdkmath.NewInt(150), keeper.GetAverage(ctx))

	// Window longer than the capacity is rejected
	tooLong := []sdkmath.Int{sdkmath.NewInt(1), sdkmath.NewInt(2), sdkmath.NewInt(3), sdkmath.NewInt(4)}
	assert.Error(t, keeper.SetWindow(ctx, tooLong))
}

func TestAverageTruncatesTowardZero(t *testing.T) {
	keeper, ctx := setupKeeper(t)
	require.NoError(t, keeper.SetParams(ctx, types.Params{WindowCapacity: 8, ThrottleInterval: 1, RecencyWindow: 1}))

	// (100 + 101 + 101) / 3 = 100.666... -> 100
	window := []sdkmath.Int{sdkmath.NewInt(100), sdkmath.NewInt(101), sdkmath.NewInt(101)}
	require.NoError(t, keeper.SetWindow(ctx, window))
	assert.Equal(t, sdkmath.NewInt(100), keeper.GetAverage(ctx))
}

func TestSetAndGetThrottleState(t *testing.T) {
	keeper, ctx := setupKeeper(t)

	// Initial state is eligible at height 0
	state := keeper.GetThrottleState(ctx)
	assert.Equal(t, int64(0), state.NextEligibleHeight)
	assert.True(t, keeper.IsEligible(ctx.WithBlockHeight(0), 0))

	keeper.SetThrottleState(ctx, types.ThrottleState{NextEligibleHeight: 42})
	assert.Equal(t, int64(42), keeper.GetThrottleState(ctx).NextEligibleHeight)
	assert.False(t, keeper.IsEligible(ctx, 41))
	assert.True(t, keeper.IsEligible(ctx, 42))
}

func TestThrottleAdvanceIsMonotonic(t *testing.T) {
	state := types.ThrottleState{}

	heights := []int64{0, 5, 3, 10, 10, 2}
	previous := int64(0)
	for _, h := range heights {
		state = state.Advance(h, 2)
		assert.GreaterOrEqual(t, state.NextEligibleHeight, previous)
		previous = state.NextEligibleHeight
	}
}
