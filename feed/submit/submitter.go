package submit

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/pkg/errors"

	feedtypes "github.com/foresta-global/pricefeed/feed/types"
	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// ErrSigning reports that no usable local key was available. The tick is
// skipped; the node itself stays up.
var ErrSigning = errors.New("no usable signing key")

// Submitter builds a price payload for the current height, signs it with the
// node's local key and hands the submission to the transaction pool. It
// never touches replicated state.
type Submitter struct {
	keyring keyring.Keyring
	keyName string
	pool    feedtypes.PoolClient
}

func New(kr keyring.Keyring, keyName string, pool feedtypes.PoolClient) *Submitter {
	return &Submitter{
		keyring: kr,
		keyName: keyName,
		pool:    pool,
	}
}

// SubmitSigned signs and submits an unsigned-with-signed-payload transaction
// for the given height and price.
func (s *Submitter) SubmitSigned(ctx context.Context, height int64, price sdkmath.Int) error {
	record, err := s.keyring.Key(s.keyName)
	if err != nil {
		return errors.Wrapf(ErrSigning, "key %q: %v", s.keyName, err)
	}

	pubKey, err := record.GetPubKey()
	if err != nil {
		return errors.Wrapf(ErrSigning, "key %q: %v", s.keyName, err)
	}

	payload := types.NewPricePayload(height, price, pubKey.Bytes())

	signature, _, err := s.keyring.Sign(s.keyName, payload.SignBytes())
	if err != nil {
		return errors.Wrapf(ErrSigning, "key %q: %v", s.keyName, err)
	}

	return s.pool.SubmitPrice(ctx, types.NewSignedSubmission(payload, signature))
}
