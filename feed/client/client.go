package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// Client talks to the pricefeed API of the local node. It gives the daemon
// its read-only view of replicated state and the submission path into the
// node's transaction pool.
type Client struct {
	base string
	http *http.Client
}

func New(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// BestHeight returns the node's current best block height.
func (c *Client) BestHeight(ctx context.Context) (int64, error) {
	body, err := c.get(ctx, "/pricefeed/v1/height")
	if err != nil {
		return 0, err
	}

	height := gjson.GetBytes(body, "height")
	if !height.Exists() {
		return 0, errors.New("height missing from node response")
	}

	return height.Int(), nil
}

// ThrottleState returns the replicated submission throttle state.
func (c *Client) ThrottleState(ctx context.Context) (types.ThrottleState, error) {
	body, err := c.get(ctx, "/pricefeed/v1/throttle")
	if err != nil {
		return types.ThrottleState{}, err
	}

	next := gjson.GetBytes(body, "next_eligible_height")
	if !next.Exists() {
		return types.ThrottleState{}, errors.New("next_eligible_height missing from node response")
	}

	return types.ThrottleState{NextEligibleHeight: next.Int()}, nil
}

// SubmitPrice posts a submission to the node's transaction pool. A pool
// rejection comes back as an error carrying the node's message.
func (c *Client) SubmitPrice(ctx context.Context, sub types.Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return errors.Wrap(err, "encode submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/pricefeed/v1/submissions", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build submission request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "post submission")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		if message := gjson.GetBytes(body, "message"); message.Exists() {
			return errors.Errorf("submission rejected: %s", message.String())
		}
		return errors.Errorf("submission rejected with status %d", res.StatusCode)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "query node")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("node returned status %d for %s", res.StatusCode, path)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read node response")
	}

	return body, nil
}
