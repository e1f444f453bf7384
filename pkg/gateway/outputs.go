package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ReadOutputs lists outputs paid to the group after the offset,
// ordered by creation time
func (c *Client) ReadOutputs(ctx context.Context, members []string, threshold uint8, offset time.Time, limit int) ([]*UTXO, error) {
	r, err := c.c.R().SetContext(ctx).
		SetQueryParam("members", HashMembers(members)).
		SetQueryParam("threshold", strconv.Itoa(int(threshold))).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", offset.UTC().Format(time.RFC3339Nano)).
		Get("/outputs")
	if err != nil {
		return nil, fmt.Errorf("gateway: read outputs: %w", err)
	}

	var outputs []*UTXO
	if err := decodeResponse(r, &outputs); err != nil {
		return nil, err
	}

	return outputs, nil
}
