package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Pricefeed module sentinel errors. The first four map one to one onto
// transaction pool rejections produced by the validity checker.
var (
	ErrStale           = errorsmod.Register(ModuleName, 2, "payload block number is behind the recency window")
	ErrFuture          = errorsmod.Register(ModuleName, 3, "payload block number is ahead of the recency window")
	ErrBadSignature    = errorsmod.Register(ModuleName, 4, "payload signature does not verify against submitter key")
	ErrThrottled       = errorsmod.Register(ModuleName, 5, "submission is not yet throttle eligible")
	ErrInvalidSource   = errorsmod.Register(ModuleName, 6, "submission kind is not allowed from this source")
	ErrInvalidPayload  = errorsmod.Register(ModuleName, 7, "malformed price payload")
	ErrInvariantBroken = errorsmod.Register(ModuleName, 8, "execution invariant broken")
)
