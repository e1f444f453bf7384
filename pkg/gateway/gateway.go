// Package gateway is the REST client of the multisig custody gateway
// backing the group: it pulls the outputs paid to the group, assembles
// and signs multisig transactions, and resolves assets and users.
package gateway

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config gateway client config
type Config struct {
	URL string `json:"url" valid:"required"`
	// KeyID the api key issued to this member node
	KeyID string `json:"key_id" valid:"uuid,required"`
	// SessionKey base64 ed25519 private key signing every request
	SessionKey string `json:"session_key" valid:"required"`
}

// Client gateway client
type Client struct {
	keyID      string
	sessionKey ed25519.PrivateKey
	c          *resty.Client
}

// New new gateway client
func New(cfg Config) (*Client, error) {
	seed, err := base64.StdEncoding.DecodeString(cfg.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("gateway: decode session key: %w", err)
	}

	var key ed25519.PrivateKey
	switch len(seed) {
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(seed)
	case ed25519.PrivateKeySize:
		key = ed25519.PrivateKey(seed)
	default:
		return nil, fmt.Errorf("gateway: invalid session key size %d", len(seed))
	}

	client := &Client{
		keyID:      cfg.KeyID,
		sessionKey: key,
	}

	client.c = resty.New().
		SetHostURL(cfg.URL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return client.signRequest(r)
		})

	return client, nil
}

// signRequest stamps the member key and a detached ed25519 signature
// over method, uri and body onto the outgoing request
func (c *Client) signRequest(r *resty.Request) error {
	var body []byte
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return err
		}
		body = b
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sum := sha256.Sum256([]byte(r.Method + r.URL + ts + string(body)))
	sig := ed25519.Sign(c.sessionKey, sum[:])

	r.SetHeader("X-Gateway-Key", c.keyID)
	r.SetHeader("X-Gateway-Timestamp", ts)
	r.SetHeader("X-Gateway-Signature", base64.RawURLEncoding.EncodeToString(sig))
	return nil
}

// Error gateway error envelope
type Error struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %d %s", e.Code, e.Description)
}

// IsErrorCode reports whether err is a gateway error with the code
func IsErrorCode(err error, code int) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}

	return false
}

type envelope struct {
	Error *Error          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// decodeResponse unwraps the {data:..., error:...} envelope
func decodeResponse(r *resty.Response, v interface{}) error {
	var env envelope
	if err := json.Unmarshal(r.Body(), &env); err != nil {
		if !r.IsSuccess() {
			return fmt.Errorf("gateway: unexpected status %s", r.Status())
		}
		return err
	}

	if env.Error != nil && env.Error.Code > 0 {
		return env.Error
	}

	if !r.IsSuccess() {
		return fmt.Errorf("gateway: unexpected status %s", r.Status())
	}

	if v != nil {
		return json.Unmarshal(env.Data, v)
	}

	return nil
}
