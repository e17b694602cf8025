package types

import (
	"context"

	pricefeedtypes "github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// BlockEvent notifies the worker that the local node imported a new block.
type BlockEvent struct {
	Height int64
}

// StateReader is the worker's read-only view of replicated state. The worker
// never mutates chain state directly; it only inspects it to decide whether a
// submission is worth building.
type StateReader interface {
	BestHeight(ctx context.Context) (int64, error)
	ThrottleState(ctx context.Context) (pricefeedtypes.ThrottleState, error)
}

// PoolClient hands a finished submission to the node's transaction pool.
type PoolClient interface {
	SubmitPrice(ctx context.Context, sub pricefeedtypes.Submission) error
}
