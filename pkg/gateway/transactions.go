package gateway

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// CreateMultisig asks the gateway to assemble a transaction spending
// the request's outputs. Repeating a trace id returns the existing
// request, so the call is safe to replay.
func (c *Client) CreateMultisig(ctx context.Context, req *MultisigRequest) (*Multisig, error) {
	r, err := c.c.R().SetContext(ctx).
		SetBody(req).
		Post("/multisigs")
	if err != nil {
		return nil, fmt.Errorf("gateway: create multisig: %w", err)
	}

	var multisig Multisig
	if err := decodeResponse(r, &multisig); err != nil {
		return nil, err
	}

	return &multisig, nil
}

// SignMultisig contributes this member's signature over the request
// payload. Once the threshold is met the returned state flips to
// signed and RawTransaction carries the final transaction.
func (c *Client) SignMultisig(ctx context.Context, requestID string, payload []byte, signKey ed25519.PrivateKey) (*Multisig, error) {
	sig := ed25519.Sign(signKey, payload)

	r, err := c.c.R().SetContext(ctx).
		SetBody(map[string]string{
			"signature": base64.RawURLEncoding.EncodeToString(sig),
		}).
		Post("/multisigs/" + requestID + "/sign")
	if err != nil {
		return nil, fmt.Errorf("gateway: sign multisig: %w", err)
	}

	var multisig Multisig
	if err := decodeResponse(r, &multisig); err != nil {
		return nil, err
	}

	return &multisig, nil
}

// SendRawTransaction submits a fully signed transaction. Submitting
// the same transaction twice is not an error.
func (c *Client) SendRawTransaction(ctx context.Context, raw string) (*Transaction, error) {
	r, err := c.c.R().SetContext(ctx).
		SetBody(map[string]string{"raw": raw}).
		Post("/transactions")
	if err != nil {
		return nil, fmt.Errorf("gateway: send raw transaction: %w", err)
	}

	var tx Transaction
	if err := decodeResponse(r, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

// ReadTransaction reads a submitted transaction by hash
func (c *Client) ReadTransaction(ctx context.Context, hash string) (*Transaction, error) {
	r, err := c.c.R().SetContext(ctx).
		Get("/transactions/" + hash)
	if err != nil {
		return nil, fmt.Errorf("gateway: read transaction: %w", err)
	}

	var tx Transaction
	if err := decodeResponse(r, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}
