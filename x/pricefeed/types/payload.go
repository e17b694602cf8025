package types

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
)

// signDomain separates pricefeed payload signatures from any other signing
// context a node key may be used in.
var signDomain = []byte("pricefeed/price/v1")

// PricePayload is the value produced by the offchain worker and carried by a
// submission. It exists only between signing and validation; acceptance folds
// it into the aggregation window and it is never persisted on its own.
type PricePayload struct {
	BlockNumber int64       `json:"block_number"`
	Price       sdkmath.Int `json:"price"`
	Submitter   []byte      `json:"submitter"` // compressed secp256k1 public key
}

// NewPricePayload creates a payload for the given height, fixed-point price
// and submitter public key.
func NewPricePayload(blockNumber int64, price sdkmath.Int, submitter []byte) PricePayload {
	return PricePayload{
		BlockNumber: blockNumber,
		Price:       price,
		Submitter:   submitter,
	}
}

// Validate performs stateless validation of the payload fields.
func (p PricePayload) Validate() error {
	if p.BlockNumber < 0 {
		return fmt.Errorf("block number cannot be negative: %d", p.BlockNumber)
	}

	if p.Price.IsNil() {
		return fmt.Errorf("price cannot be nil")
	}

	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %s", p.Price)
	}

	if len(p.Submitter) != secp256k1.PubKeySize {
		return fmt.Errorf("submitter key must be %d bytes, got %d", secp256k1.PubKeySize, len(p.Submitter))
	}

	return nil
}

// SignBytes returns the deterministic byte encoding signed by the submitter.
func (p PricePayload) SignBytes() []byte {
	height := make([]byte, 8)
	binary.BigEndian.PutUint64(height, uint64(p.BlockNumber))

	bz := make([]byte, 0, len(signDomain)+8+len(p.Price.String())+len(p.Submitter))
	bz = append(bz, signDomain...)
	bz = append(bz, height...)
	bz = append(bz, []byte(p.Price.String())...)
	bz = append(bz, p.Submitter...)

	return bz
}

// VerifySignature checks the signature over SignBytes against the submitter key.
func (p PricePayload) VerifySignature(signature []byte) bool {
	pubKey := secp256k1.PubKey{Key: p.Submitter}
	return pubKey.VerifySignature(p.SignBytes(), signature)
}

// UniqueTag derives the pool uniqueness tag from (submitter, block number) so
// duplicate submissions for the same submitter and height collide in the pool.
func (p PricePayload) UniqueTag() []byte {
	height := make([]byte, 8)
	binary.BigEndian.PutUint64(height, uint64(p.BlockNumber))

	sum := sha256.Sum256(append(append([]byte{}, p.Submitter...), height...))
	return sum[:]
}

// SubmissionKind tags the two submission variants accepted at the boundary.
type SubmissionKind byte

const (
	// KindSigned is an unsigned transaction carrying a signed payload. It may
	// reach the pool from any source; the embedded signature supplies
	// authenticity.
	KindSigned SubmissionKind = iota

	// KindLocal is a purely local unsigned payload. It is only accepted when
	// produced by this node or already included in a block.
	KindLocal
)

// Source describes where the transaction pool saw a submission.
type Source byte

const (
	SourceLocal Source = iota
	SourceInBlock
	SourceExternal
)

// Submission is the tagged variant crossing the offchain/replicated boundary.
type Submission struct {
	Kind      SubmissionKind `json:"kind"`
	Payload   PricePayload   `json:"payload"`
	Signature []byte         `json:"signature,omitempty"`
}

// NewSignedSubmission wraps a payload and its signature.
func NewSignedSubmission(payload PricePayload, signature []byte) Submission {
	return Submission{Kind: KindSigned, Payload: payload, Signature: signature}
}

// NewLocalSubmission wraps a payload produced by the local node without a
// signature.
func NewLocalSubmission(payload PricePayload) Submission {
	return Submission{Kind: KindLocal, Payload: payload}
}

// Validity is the descriptor handed to the transaction pool for an accepted
// submission.
type Validity struct {
	// Priority orders competing submissions in the pool.
	Priority uint64

	// Longevity is the number of blocks the submission stays valid for; it is
	// bounded by the recency window.
	Longevity int64

	// UniqueTag deduplicates submissions for the same (submitter, height).
	UniqueTag []byte

	// Propagate reports whether the submission may be relayed to peers.
	Propagate bool
}

// ThrottleState gates submission frequency by block height.
type ThrottleState struct {
	NextEligibleHeight int64 `json:"next_eligible_height"`
}

// IsEligible reports whether a submission at currentHeight passes the gate.
func (ts ThrottleState) IsEligible(currentHeight int64) bool {
	return currentHeight >= ts.NextEligibleHeight
}

// Advance returns the state after accepting a submission at currentHeight.
// The next eligible height never decreases.
func (ts ThrottleState) Advance(currentHeight, interval int64) ThrottleState {
	next := currentHeight + interval
	if next < ts.NextEligibleHeight {
		next = ts.NextEligibleHeight
	}
	return ThrottleState{NextEligibleHeight: next}
}
