package oracle

import (
	"context"
	"fmt"
	"time"

	"vault/core"
	"vault/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

type priceService struct {
	endpoint string
}

// New new oracle price service
func New(endpoint string) core.PriceOracleService {
	return &priceService{endpoint: endpoint}
}

// PullPriceTicker pull one price ticker
func (s *priceService) PullPriceTicker(ctx context.Context, symbol string, t time.Time) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", s.endpoint, symbol, t.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var price core.PriceTicker
	if err := resthttp.ParseResponse(resp, &price); err != nil {
		return nil, err
	}

	return &price, nil
}

// PullAllPriceTickers pull all price tickers
func (s *priceService) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers?ts=%d", s.endpoint, t.UTC().Unix())

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var prices []*core.PriceTicker
	if err := resthttp.ParseResponse(resp, &prices); err != nil {
		return nil, err
	}

	return prices, nil
}
