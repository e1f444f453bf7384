package gateway

import (
	"context"
	"fmt"
)

// ReadAsset resolves asset metadata by asset id
func (c *Client) ReadAsset(ctx context.Context, assetID string) (*Asset, error) {
	r, err := c.c.R().SetContext(ctx).
		Get("/assets/" + assetID)
	if err != nil {
		return nil, fmt.Errorf("gateway: read asset: %w", err)
	}

	var asset Asset
	if err := decodeResponse(r, &asset); err != nil {
		return nil, err
	}

	return &asset, nil
}

// ReadUser resolves the user bound to an oauth access token
func (c *Client) ReadUser(ctx context.Context, accessToken string) (*User, error) {
	r, err := c.c.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+accessToken).
		Get("/me")
	if err != nil {
		return nil, fmt.Errorf("gateway: read user: %w", err)
	}

	var user User
	if err := decodeResponse(r, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// CreatePayment registers a payment code the user wallet can scan to
// pay the group
func (c *Client) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	r, err := c.c.R().SetContext(ctx).
		SetBody(payment).
		Post("/payments")
	if err != nil {
		return nil, fmt.Errorf("gateway: create payment: %w", err)
	}

	var created Payment
	if err := decodeResponse(r, &created); err != nil {
		return nil, err
	}

	return &created, nil
}
