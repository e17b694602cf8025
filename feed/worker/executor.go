package worker

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ErrFetch covers network and transport failures of the price fetch. The
// tick is skipped and the next block retries.
var ErrFetch = errors.New("price fetch failed")

// ErrExtraction covers malformed documents and missing or non-numeric price
// fields. No partial result is produced.
var ErrExtraction = errors.New("price extraction failed")

var (
	once       sync.Once
	httpClient *http.Client
)

func executorClient() *http.Client {
	once.Do(func() {
		transport := new(http.Transport)
		transport.MaxIdleConns = 100
		transport.MaxIdleConnsPerHost = 10
		transport.IdleConnTimeout = 90 * time.Second
		transport.WriteBufferSize = 32 * 1024
		transport.ReadBufferSize = 32 * 1024

		httpClient = new(http.Client)
		httpClient.Transport = transport
	})

	return httpClient
}

// fetchRawData issues a bounded GET against the configured source. The
// deadline comes from the caller's context; a late response is discarded
// with the abandoned request.
func fetchRawData(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(ErrFetch, err.Error())
	}

	req.Header.Set("User-Agent", "Pricefeed-Daemon/1.0")
	req.Header.Set("Accept", "application/json")

	res, err := executorClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrFetch, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrFetch, "unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(ErrFetch, err.Error())
	}

	return body, nil
}

// extractPrice locates fieldPath in the JSON body and converts the numeric
// value to a fixed-point integer by scaling with 10^scaleDecimals and
// truncating. Deterministic for identical bytes; the bytes themselves may
// differ between nodes, which is why this runs off-ledger.
func extractPrice(body []byte, fieldPath string, scaleDecimals uint32) (sdkmath.Int, error) {
	if !gjson.ValidBytes(body) {
		return sdkmath.Int{}, errors.Wrap(ErrExtraction, "response is not valid JSON")
	}

	result := gjson.GetBytes(body, fieldPath)
	if !result.Exists() {
		return sdkmath.Int{}, errors.Wrapf(ErrExtraction, "field %q not found", fieldPath)
	}

	if result.Type != gjson.Number {
		return sdkmath.Int{}, errors.Wrapf(ErrExtraction, "field %q is not a number: %s", fieldPath, result.Raw)
	}

	dec, err := sdk.NewDecFromStr(result.Raw)
	if err != nil {
		return sdkmath.Int{}, errors.Wrapf(ErrExtraction, "field %q: %v", fieldPath, err)
	}

	if dec.IsNegative() {
		return sdkmath.Int{}, errors.Wrapf(ErrExtraction, "field %q is negative: %s", fieldPath, result.Raw)
	}

	scale := sdkmath.NewIntWithDecimal(1, int(scaleDecimals))
	return dec.MulInt(scale).TruncateInt(), nil
}
